package models

import (
	"time"
)

// UserProfile is stored under user_profile:{id}
type UserProfile struct {
	ID                  string              `json:"id" example:"5f1c2d0e-8a4b-4f4e-9a51-0d6a3f3b7c11"`
	Email               string              `json:"email" example:"student@uni.edu"`
	Name                string              `json:"name" example:"Asha Verma"`
	Role                RoleType            `json:"role" example:"student"`
	StudentID           string              `json:"studentId,omitempty" example:"S2024001"`
	Department          string              `json:"department,omitempty" example:"Computer Science"`
	Year                string              `json:"year,omitempty" example:"2"`
	CreatedAt           time.Time           `json:"createdAt"`
	LastLogin           *time.Time          `json:"lastLogin"`
	Settings            Settings            `json:"settings"`
	MentalHealthProfile MentalHealthProfile `json:"mentalHealthProfile"`
}

// Settings are user interface preferences
type Settings struct {
	Notifications bool   `json:"notifications" example:"true"`
	Language      string `json:"language" example:"English"`
	Theme         string `json:"theme" example:"light"`
}

// MentalHealthProfile aggregates the user's assessment history
type MentalHealthProfile struct {
	AssessmentHistory []AssessmentSummary `json:"assessmentHistory"`
	RiskLevel         RiskLevel           `json:"riskLevel" example:"unknown"`
	LastAssessment    *time.Time          `json:"lastAssessment"`
	Preferences       Preferences         `json:"preferences"`
}

// Preferences controls what the user shares with peers
type Preferences struct {
	AnonymousMode  bool `json:"anonymousMode" example:"false"`
	ShareWithPeers bool `json:"shareWithPeers" example:"true"`
}

// AssessmentSummary is the entry appended to the profile history per assessment
type AssessmentSummary struct {
	ID        string    `json:"id"`
	Type      string    `json:"type" example:"PHQ-9"`
	Score     int       `json:"score" example:"12"`
	RiskLevel RiskLevel `json:"riskLevel" example:"moderate"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserProfile builds the profile written at signup
func NewUserProfile(id, email, name string, role RoleType, now time.Time) *UserProfile {
	return &UserProfile{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		Settings: Settings{
			Notifications: true,
			Language:      "English",
			Theme:         "light",
		},
		MentalHealthProfile: MentalHealthProfile{
			AssessmentHistory: []AssessmentSummary{},
			RiskLevel:         RiskUnknown,
			Preferences: Preferences{
				AnonymousMode:  false,
				ShareWithPeers: true,
			},
		},
	}
}

// UserStats holds per-user usage counters, stored under user_stats:{id}
type UserStats struct {
	TotalSessions     int        `json:"totalSessions"`
	TotalAssessments  int        `json:"totalAssessments"`
	LastActivity      *time.Time `json:"lastActivity"`
	StreakDays        int        `json:"streakDays"`
	ResourcesAccessed int        `json:"resourcesAccessed"`
	PeerInteractions  int        `json:"peerInteractions"`
}
