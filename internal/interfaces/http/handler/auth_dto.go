package handler

import "time"

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100" example:"admin"`
	Password string `json:"password" binding:"required,min=1,max=128" example:"correct-horse-battery"`
}

// LoginResponse represents the response body for a successful login
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username" example:"admin"`
}

// CurrentUserResponse describes the authenticated administrator
type CurrentUserResponse struct {
	Username  string    `json:"username" example:"admin"`
	Role      string    `json:"role" example:"admin"`
	ExpiresAt time.Time `json:"expires_at"`
}
