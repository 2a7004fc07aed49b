package dto

// SuccessResponse is returned by operations without a payload
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
