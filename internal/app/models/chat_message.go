package models

import "time"

// ChatLogEntry is appended to chat_log:{userId}:{YYYY-MM-DD}
type ChatLogEntry struct {
	UserID            string    `json:"userId"`
	SessionID         string    `json:"sessionId" example:"session_1718000000000"`
	Message           string    `json:"message"`
	Response          string    `json:"response"`
	RiskLevel         RiskLevel `json:"riskLevel" example:"low"`
	Timestamp         time.Time `json:"timestamp"`
	NeedsIntervention bool      `json:"needsIntervention"`
}
