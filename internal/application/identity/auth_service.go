package identity

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/auth"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for any failed login
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService authenticates the catalog administrator
type AuthService struct {
	adminUsername     string
	adminPasswordHash string
	jwtService        *auth.JWTService
	revocations       auth.RevocationList
	logger            *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	cfg config.AuthConfig,
	jwtService *auth.JWTService,
	revocations auth.RevocationList,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: cfg.AdminPasswordHash,
		jwtService:        jwtService,
		revocations:       revocations,
		logger:            logger,
	}
}

// Login checks the credentials against the configured administrator and
// returns a signed access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	s.logger.Info("Login attempt", zap.String("username", username), zap.String("ip", input.IP))

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	// The hash is always checked so that an unknown username costs the same as a wrong password.
	passwordOK := auth.VerifyPassword(s.adminPasswordHash, input.Password)
	if !usernameOK || !passwordOK {
		s.logger.Warn("Invalid login attempt", zap.String("username", username), zap.String("ip", input.IP))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(s.adminUsername)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("Admin logged in", zap.String("username", username))
	return &LoginResult{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Username:    s.adminUsername,
	}, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return shared.NewValidationError("Token ID is required")
	}
	if err := s.revocations.Revoke(ctx, input.TokenJTI, input.RemainingTTL); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", input.TokenJTI), zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("username", input.Username))
	return nil
}
