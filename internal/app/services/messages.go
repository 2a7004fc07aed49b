package services

// Messages returned to clients
const (
	msgMissingFields      = "Missing required fields"
	msgProfileNotFound    = "Profile not found"
	msgPostNotFound       = "Post not found"
	msgCounselorNotFound  = "Counselor not found"
	msgSlotTaken          = "The selected time slot is no longer available"
	msgServerConfig       = "Server configuration error"
	msgContentSuggestion  = "Please revise your message and try again"
	msgPostRejected       = "Content contains inappropriate language and cannot be posted"
	msgReplyRejected      = "Reply contains inappropriate language and cannot be posted"
	msgAccountUnavailable = "Failed to create user account"
)
