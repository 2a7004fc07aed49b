// Package risk holds the text classification used to triage chat messages and
// forum content. Classification is keyword based; Classifier is the seam where
// a model-backed implementation can be plugged in.
package risk

import (
	"context"
	"strings"

	"github.com/yigit/mindcare/internal/app/models"
)

// Classifier maps free text to a risk level
type Classifier interface {
	Classify(ctx context.Context, text string) (models.RiskLevel, error)
}

// KeywordSet holds the keyword tiers, checked from most to least severe
type KeywordSet struct {
	Crisis   []string `yaml:"crisis"`
	High     []string `yaml:"high"`
	Moderate []string `yaml:"moderate"`
}

// ChatKeywords are used for AI chat messages
var ChatKeywords = KeywordSet{
	Crisis:   []string{"suicide", "kill myself", "end it all", "no point living"},
	High:     []string{"hopeless", "worthless", "can't go on", "everything is wrong"},
	Moderate: []string{"stressed", "anxious", "worried", "sad", "depressed"},
}

// ForumKeywords are used for peer posts and replies
var ForumKeywords = KeywordSet{
	Crisis:   []string{"suicide", "kill myself", "end it all", "no hope"},
	High:     []string{"hopeless", "worthless", "nobody cares", "give up"},
	Moderate: []string{"struggling", "difficult time", "overwhelmed", "stressed"},
}

// KeywordClassifier does case-insensitive substring matching; the first tier with a hit wins
type KeywordClassifier struct {
	tiers []tier
}

type tier struct {
	level    models.RiskLevel
	keywords []string
}

// NewKeywordClassifier creates a classifier for the given keyword set
func NewKeywordClassifier(set KeywordSet) *KeywordClassifier {
	return &KeywordClassifier{
		tiers: []tier{
			{level: models.RiskCrisis, keywords: lower(set.Crisis)},
			{level: models.RiskHigh, keywords: lower(set.High)},
			{level: models.RiskModerate, keywords: lower(set.Moderate)},
		},
	}
}

// Classify never fails; the error is part of the Classifier contract
func (k *KeywordClassifier) Classify(_ context.Context, text string) (models.RiskLevel, error) {
	return k.Level(text), nil
}

// Level returns the risk level of text
func (k *KeywordClassifier) Level(text string) models.RiskLevel {
	content := strings.ToLower(text)
	for _, t := range k.tiers {
		if containsAny(content, t.keywords) {
			return t.level
		}
	}
	return models.RiskLow
}

// ContentAssessment is the moderation view of a forum classification
type ContentAssessment struct {
	RiskLevel       models.RiskLevel `json:"riskLevel"`
	NeedsModeration bool             `json:"needsModeration"`
	Flagged         bool             `json:"flagged"`
}

// AssessContent derives moderation flags: high and crisis need moderation, only crisis is flagged
func AssessContent(level models.RiskLevel) ContentAssessment {
	return ContentAssessment{
		RiskLevel:       level,
		NeedsModeration: level.Elevated(),
		Flagged:         level == models.RiskCrisis,
	}
}

func containsAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

func lower(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
