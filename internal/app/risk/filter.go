package risk

import "strings"

// DefaultProfanity is the word list used by the peer forum
var DefaultProfanity = []string{"fuck", "shit", "damn", "bitch", "asshole", "bastard"}

// ReasonInappropriateLanguage is reported for blocked submissions
const ReasonInappropriateLanguage = "Contains inappropriate language"

// FilterResult is the outcome of a content check. Blocked content is rejected
// as a whole; nothing is redacted.
type FilterResult struct {
	Blocked bool   `json:"blocked"`
	Content string `json:"content"`
	Reason  string `json:"reason,omitempty"`
}

// ContentFilter rejects text containing any listed word as a case-insensitive substring
type ContentFilter struct {
	words []string
}

// NewContentFilter creates a filter; no words means DefaultProfanity
func NewContentFilter(words ...string) *ContentFilter {
	if len(words) == 0 {
		words = DefaultProfanity
	}
	return &ContentFilter{words: lower(words)}
}

// Check is pure and safe for concurrent use
func (f *ContentFilter) Check(content string) FilterResult {
	if containsAny(strings.ToLower(content), f.words) {
		return FilterResult{Blocked: true, Content: content, Reason: ReasonInappropriateLanguage}
	}
	return FilterResult{Blocked: false, Content: content}
}
