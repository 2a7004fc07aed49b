package dto

import "github.com/yigit/mindcare/internal/app/models"

// ChatRequest is a message sent to the support assistant
type ChatRequest struct {
	UserID    string `json:"userId" binding:"required"`
	Message   string `json:"message" binding:"required" example:"I have been feeling stressed about exams"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the assistant reply. Crisis and Intervention are only set
// when the message was classified as crisis.
type ChatResponse struct {
	Response     string                     `json:"response"`
	SessionID    string                     `json:"sessionId" example:"session_1718000000000"`
	RiskLevel    models.RiskLevel           `json:"riskLevel" example:"low"`
	Crisis       bool                       `json:"crisis,omitempty"`
	Intervention *models.InterventionResult `json:"intervention,omitempty"`
}
