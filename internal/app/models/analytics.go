package models

// RiskAnalytics counts classified interactions per level for one UTC day
type RiskAnalytics struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Crisis   int `json:"crisis"`
}

// Increment bumps the counter of level; unknown levels are ignored
func (r *RiskAnalytics) Increment(level RiskLevel) {
	switch level {
	case RiskLow:
		r.Low++
	case RiskModerate:
		r.Moderate++
	case RiskHigh:
		r.High++
	case RiskCrisis:
		r.Crisis++
	}
}

// Count returns the counter of level
func (r RiskAnalytics) Count(level RiskLevel) int {
	switch level {
	case RiskLow:
		return r.Low
	case RiskModerate:
		return r.Moderate
	case RiskHigh:
		return r.High
	case RiskCrisis:
		return r.Crisis
	}
	return 0
}

// Total is the number of classified interactions of the day
func (r RiskAnalytics) Total() int {
	return r.Low + r.Moderate + r.High + r.Crisis
}
