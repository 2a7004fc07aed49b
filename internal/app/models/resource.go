package models

// Resource is a self-help suggestion (video, book, article or hotline)
type Resource struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url,omitempty" yaml:"url"`
	Author      string `json:"author,omitempty" yaml:"author"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type,omitempty" yaml:"type"`
}

// ResourceSet groups resources by kind, e.g. "videos", "books", "articles", "crisis"
type ResourceSet map[string][]Resource
