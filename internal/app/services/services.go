// Package services holds the business logic behind the HTTP handlers:
//   - AccountService: signup, login and profile management
//   - ActivityService: usage counters and the daily activity log
//   - AnalyticsService: risk counters and the admin dashboard
//   - CrisisService: emergency booking when a message is classified as crisis
//   - ChatService: support chat with risk triage
//   - PeerService: forum posts and replies with filtering and moderation flags
//   - AssessmentService, BookingService, CounselorService, ResourceService
package services

import (
	"context"
	"time"

	"github.com/yigit/mindcare/internal/app/models"
)

// ActivityRecorder records a user activity event
type ActivityRecorder interface {
	RecordUserActivity(ctx context.Context, userID, activity string, metadata map[string]interface{}) error
}

// RiskRecorder counts a classified interaction in the daily risk analytics
type RiskRecorder interface {
	RecordRisk(ctx context.Context, userID string, level models.RiskLevel) error
}

// Intervener runs the crisis workflow. It never fails; the result message is never empty.
type Intervener interface {
	Intervene(ctx context.Context, userID, source string) models.InterventionResult
}

// Clock returns the current time
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
