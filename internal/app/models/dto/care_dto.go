package dto

import "github.com/yigit/mindcare/internal/app/models"

// AssessmentRequest is a completed self-assessment
type AssessmentRequest struct {
	UserID         string                 `json:"userId" binding:"required"`
	AssessmentType string                 `json:"assessmentType" binding:"required" example:"PHQ-9"`
	Responses      map[string]interface{} `json:"responses"`
	Score          int                    `json:"score" example:"12"`
	RiskLevel      models.RiskLevel       `json:"riskLevel" binding:"required,risklevel" example:"moderate"`
}

// AssessmentResponse is returned after storing an assessment
type AssessmentResponse struct {
	Success      bool   `json:"success" example:"true"`
	AssessmentID string `json:"assessmentId"`
}

// BookSessionRequest books a counselling session
type BookSessionRequest struct {
	UserID      string `json:"userId" binding:"required"`
	CounselorID string `json:"counselorId" binding:"required" example:"1"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02" example:"2025-03-14"`
	Time        string `json:"time" binding:"required,datetime=15:04" example:"09:00"`
	SessionType string `json:"sessionType" binding:"required" example:"individual"`
	Mode        string `json:"mode" binding:"required" example:"video_call"`
	Notes       string `json:"notes"`
}

// BookingResponse wraps a created booking
type BookingResponse struct {
	Success bool           `json:"success" example:"true"`
	Booking models.Booking `json:"booking"`
}

// ResourceRequest asks for self-help resources
type ResourceRequest struct {
	ProblemType string           `json:"problemType" example:"anxiety"`
	RiskLevel   models.RiskLevel `json:"riskLevel" binding:"omitempty,risklevel" example:"moderate"`
	UserID      string           `json:"userId,omitempty"`
}

// ResourceResponse lists resources grouped by kind
type ResourceResponse struct {
	Resources models.ResourceSet `json:"resources"`
}
