package identity

import "time"

// LoginInput contains the credentials submitted to the login endpoint
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for audit logging
}

// LoginResult contains the issued access token
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	Username    string
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	Username     string
	TokenJTI     string
	RemainingTTL time.Duration
}
