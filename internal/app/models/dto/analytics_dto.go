package dto

import "github.com/yigit/mindcare/internal/app/models"

// RiskDistributionItem is the number of profiles at one risk level
type RiskDistributionItem struct {
	Level string `json:"level" example:"Moderate Risk"`
	Count int    `json:"count" example:"4"`
	Color string `json:"color" example:"#F59E0B"`
}

// AnalyticsResponse is the aggregate dashboard data
type AnalyticsResponse struct {
	TotalUsers           int                    `json:"totalUsers"`
	ActiveUsers          int                    `json:"activeUsers"`
	UsersByRole          map[string]int         `json:"usersByRole"`
	TotalSessions        int                    `json:"totalSessions"`
	CrisisInterventions  int                    `json:"crisisInterventions"`
	CompletedAssessments int                    `json:"completedAssessments"`
	RiskDistribution     []RiskDistributionItem `json:"riskDistribution"`
	TodayRisk            models.RiskAnalytics   `json:"todayRisk"`
}

// RiskTrendPoint is one day of risk analytics
type RiskTrendPoint struct {
	Date string `json:"date" example:"2025-03-14"`
	models.RiskAnalytics
}

// RiskTrendResponse lists day buckets oldest first
type RiskTrendResponse struct {
	Days  int              `json:"days" example:"7"`
	Trend []RiskTrendPoint `json:"trend"`
}
