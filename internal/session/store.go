package session

import (
	"context"
	"time"
)

// Session is the server-side record behind the auth cookie. It lives only in
// the SessionStore; the cookie itself carries nothing but a signed session id.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Permanent   bool   `json:"permanent"`
}

const (
	// PermanentTTL applies when the user logs in or signs up ("remember me"
	// style persistent sessions).
	PermanentTTL = 30 * 24 * time.Hour

	// TransientTTL bounds sessions that were never marked permanent.
	TransientTTL = 24 * time.Hour
)

// Store abstracts the server-side session storage so handlers never touch
// ambient framework session state.
type Store interface {
	Get(ctx context.Context, id string) (*Session, bool)
	Set(ctx context.Context, id string, s *Session) error
	Clear(ctx context.Context, id string) error
}

func ttlFor(s *Session) time.Duration {
	if s.Permanent {
		return PermanentTTL
	}
	return TransientTTL
}
