package dto

import "github.com/yigit/mindcare/internal/app/models"

// SignupRequest represents a new account
type SignupRequest struct {
	Email      string          `json:"email" binding:"required"`
	Password   string          `json:"password" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Role       models.RoleType `json:"role" binding:"required,role" example:"student"`
	StudentID  string          `json:"studentId,omitempty"`
	Department string          `json:"department,omitempty"`
	Year       string          `json:"year,omitempty"`
}

// AccountUser is the public part of a created account
type AccountUser struct {
	ID    string          `json:"id"`
	Email string          `json:"email" example:"student@uni.edu"`
	Name  string          `json:"name"`
	Role  models.RoleType `json:"role" example:"student"`
}

// SignupResponse is returned after a successful signup
type SignupResponse struct {
	Success bool        `json:"success" example:"true"`
	User    AccountUser `json:"user"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType" example:"Bearer"`
	ExpiresIn   int         `json:"expiresIn" example:"86400"`
	User        AccountUser `json:"user"`
}

// ActivityRequest records a user activity event
type ActivityRequest struct {
	UserID   string                 `json:"userId" binding:"required"`
	Activity string                 `json:"activity" binding:"required" example:"session_start"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
