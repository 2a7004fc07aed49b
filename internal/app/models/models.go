package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleCounselor RoleType = "counselor"
	RoleAdmin     RoleType = "admin"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleCounselor, RoleAdmin:
		return true
	}
	return false
}

// RiskLevel is the outcome of classifying a piece of free text
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCrisis   RiskLevel = "crisis"
	// RiskUnknown is only used on profiles that never completed an assessment
	RiskUnknown RiskLevel = "unknown"
)

// RiskLevels lists the classifier levels from least to most severe
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskCrisis}

// Valid reports whether l is a classifier level
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskModerate, RiskHigh, RiskCrisis:
		return true
	}
	return false
}

// Elevated is true for levels that call for moderation or crisis resources
func (l RiskLevel) Elevated() bool {
	return l == RiskHigh || l == RiskCrisis
}
