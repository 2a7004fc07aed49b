package models

import "time"

// Assessment is a completed self-assessment, stored under assessment:{userId}:{id}
type Assessment struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"userId"`
	AssessmentType string                 `json:"assessmentType" example:"PHQ-9"`
	Responses      map[string]interface{} `json:"responses"`
	Score          int                    `json:"score" example:"12"`
	RiskLevel      RiskLevel              `json:"riskLevel" example:"moderate"`
	Timestamp      time.Time              `json:"timestamp"`
}
