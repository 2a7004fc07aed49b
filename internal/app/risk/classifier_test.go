package risk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/mindcare/internal/app/models"
)

func TestChatClassifier(t *testing.T) {
	c := NewKeywordClassifier(ChatKeywords)

	tests := []struct {
		text string
		want models.RiskLevel
	}{
		{"I want to end it all", models.RiskCrisis},
		{"Sometimes I think about SUICIDE", models.RiskCrisis},
		{"I feel hopeless and worthless", models.RiskHigh},
		{"I can't go on like this", models.RiskHigh},
		{"exams make me so stressed", models.RiskModerate},
		{"Had a nice walk today", models.RiskLow},
		{"", models.RiskLow},
		// first tier wins, no aggregation
		{"I'm sad and I want to kill myself", models.RiskCrisis},
		{"anxious and hopeless", models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForumClassifierUsesItsOwnKeywords(t *testing.T) {
	forum := NewKeywordClassifier(ForumKeywords)
	chat := NewKeywordClassifier(ChatKeywords)

	assert.Equal(t, models.RiskCrisis, forum.Level("there is no hope left"))
	assert.Equal(t, models.RiskLow, chat.Level("there is no hope left"))

	assert.Equal(t, models.RiskHigh, forum.Level("nobody cares about me"))
	assert.Equal(t, models.RiskModerate, forum.Level("going through a difficult time"))
	assert.Equal(t, models.RiskLow, forum.Level("I feel sad"))
}

func TestClassificationIsDeterministic(t *testing.T) {
	c := NewKeywordClassifier(ChatKeywords)
	text := "I'm worried about everything"
	assert.Equal(t, c.Level(text), c.Level(text))
}

func TestAssessContent(t *testing.T) {
	assert.Equal(t, ContentAssessment{RiskLevel: models.RiskLow}, AssessContent(models.RiskLow))
	assert.Equal(t, ContentAssessment{RiskLevel: models.RiskModerate}, AssessContent(models.RiskModerate))
	assert.Equal(t, ContentAssessment{RiskLevel: models.RiskHigh, NeedsModeration: true}, AssessContent(models.RiskHigh))
	assert.Equal(t, ContentAssessment{RiskLevel: models.RiskCrisis, NeedsModeration: true, Flagged: true}, AssessContent(models.RiskCrisis))
}
