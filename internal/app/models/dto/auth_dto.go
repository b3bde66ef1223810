package dto

import "github.com/jdelacruz/schoolrecords/internal/app/models"

// RegisterRequest represents an account registration request. For the
// student role, StudentID is mandatory and becomes the username.
type RegisterRequest struct {
	Username  string      `json:"username" binding:"required"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      models.Role `json:"role" binding:"required"`
	StudentID string      `json:"student_id"`
}

// RegisterResponse reports the outcome of a registration.
type RegisterResponse struct {
	Message   string `json:"message"`
	Role      string `json:"role"`
	StudentID string `json:"student_id,omitempty"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int    `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// CSRFResponse carries the anti-forgery token issued to the client.
type CSRFResponse struct {
	CSRFToken string `json:"csrftoken"`
}
