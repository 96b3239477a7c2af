package service

import (
	"context"
	"errors"

	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/pkg/logger"
	"companion-chat-be/internal/pkg/serverutils"
	"companion-chat-be/internal/session"
	"companion-chat-be/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AuthResult bundles the response payload with the freshly created server
// session. SessionID is empty when LoginPending is set (signup stood at the
// provider but the immediate login failed).
type AuthResult struct {
	Payload      *dto.AuthResponse
	SessionID    string
	LoginPending bool
}

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string)
	ResolveToken(ctx context.Context, accessToken string) (*entity.Identity, error)
}

type authService struct {
	provider identity.IClient
	sessions session.Store
	log      logger.ILogger
}

func NewAuthService(provider identity.IClient, sessions session.Store, log logger.ILogger) IAuthService {
	return &authService{
		provider: provider,
		sessions: sessions,
		log:      log,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*AuthResult, error) {
	if s.provider == nil {
		return nil, serverutils.NewHTTPError(fiber.StatusInternalServerError, "identity provider is not configured")
	}

	if err := s.provider.SignUp(ctx, req.Email, req.Password, req.DisplayName); err != nil {
		var provErr *identity.ProviderError
		if errors.As(err, &provErr) {
			return nil, serverutils.NewHTTPError(fiber.StatusBadRequest, provErr.Message)
		}
		return nil, err
	}

	// The provider does not hand back a token from signup; log in right away
	// with the same credentials.
	token, err := s.provider.PasswordGrant(ctx, req.Email, req.Password)
	if err != nil {
		s.log.Warn("auth", "login after signup failed", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		return &AuthResult{LoginPending: true}, nil
	}

	user, err := s.provider.WhoAmI(ctx, token.AccessToken)
	if err != nil {
		s.log.Warn("auth", "user fetch after signup failed", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		return &AuthResult{LoginPending: true}, nil
	}

	return s.establishSession(ctx, user, token)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	if s.provider == nil {
		return nil, serverutils.NewHTTPError(fiber.StatusInternalServerError, "identity provider is not configured")
	}

	token, err := s.provider.PasswordGrant(ctx, req.Email, req.Password)
	if err != nil {
		return nil, unauthorized(err)
	}

	user, err := s.provider.WhoAmI(ctx, token.AccessToken)
	if err != nil {
		return nil, unauthorized(err)
	}

	return s.establishSession(ctx, user, token)
}

// Logout is idempotent; clearing an unknown or empty session id is a no-op.
func (s *authService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		s.log.Warn("auth", "session clear failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *authService) ResolveToken(ctx context.Context, accessToken string) (*entity.Identity, error) {
	if s.provider == nil || accessToken == "" {
		return nil, nil
	}
	user, err := s.provider.WhoAmI(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &entity.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

func (s *authService) establishSession(ctx context.Context, user *identity.User, token *identity.Token) (*AuthResult, error) {
	sessionID := uuid.New().String()
	err := s.sessions.Set(ctx, sessionID, &session.Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Permanent:   true,
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		SessionID: sessionID,
		Payload: &dto.AuthResponse{
			UserId:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			AccessToken: token.AccessToken,
			TokenType:   "bearer",
		},
	}, nil
}

// unauthorized passes the provider's message through with a 401; transport
// failures get a generic message so connection strings never leak.
func unauthorized(err error) error {
	var provErr *identity.ProviderError
	if errors.As(err, &provErr) {
		return serverutils.NewHTTPError(fiber.StatusUnauthorized, provErr.Message)
	}
	return serverutils.NewHTTPError(fiber.StatusUnauthorized, "authentication failed")
}
