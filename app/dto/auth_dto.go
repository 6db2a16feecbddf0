// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CaptchaInitResponse carries a fresh rotate-captcha challenge
type CaptchaInitResponse struct {
	ChallengeID       string `json:"challenge_id"`
	MasterImageBase64 string `json:"master_image_base64"`
	ThumbImageBase64  string `json:"thumb_image_base64"`
}

// LoginRequest represents the request payload for console login
type LoginRequest struct {
	Email       string  `json:"email" validate:"required,email,max=255" example:"laura@surtimax.co"`
	Password    string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ChallengeID string  `json:"challenge_id" validate:"required"`
	UserAngle   float64 `json:"user_angle" validate:"required"`
}

// UserDTO represents user information returned after login
type UserDTO struct {
	ID        uint   `json:"id" example:"3"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	FullName  string `json:"full_name" example:"Laura Pineda"`
	Email     string `json:"email" example:"laura@surtimax.co"`
	Role      string `json:"role" example:"buyer"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2025-11-02T10:30:00Z"`
}

// SessionDTO carries the issued token pair
type SessionDTO struct {
	AccessToken  string `json:"access_token" example:"jwt"`
	RefreshToken string `json:"refresh_token" example:"jwt"`
	ExpiresIn    int    `json:"expires_in" example:"86400"`
	TokenType    string `json:"token_type" example:"Bearer"`
	CreatedAt    string `json:"created_at" example:"2026-02-10T09:30:00Z"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// Common error codes for authentication operations
const (
	ErrorUserNotFound      = "USER_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorAccountInactive   = "ACCOUNT_INACTIVE"
	ErrorCaptchaInvalid    = "CAPTCHA_INVALID"
)
