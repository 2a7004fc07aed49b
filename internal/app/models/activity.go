package models

import "time"

// Activity types recorded in the daily activity log
const (
	ActivitySessionStart       = "session_start"
	ActivityAssessmentComplete = "assessment_complete"
	ActivityResourceAccess     = "resource_access"
	ActivityPeerInteraction    = "peer_interaction"
	ActivityPeerPostCreated    = "peer_post_created"
	ActivityPeerReplyCreated   = "peer_reply_created"
	ActivityPeerPostLiked      = "peer_post_liked"
	ActivitySessionBooked      = "session_booked"
	ActivityAIChatInteraction  = "ai_chat_interaction"
	ActivityCrisisIntervention = "crisis_intervention_triggered"
)

// ActivityLogEntry is appended to activity_log:{YYYY-MM-DD}
type ActivityLogEntry struct {
	UserID    string                 `json:"userId"`
	Activity  string                 `json:"activity" example:"session_start"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata"`
}
