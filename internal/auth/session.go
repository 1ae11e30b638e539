package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/nakupi/internal/store"
)

// ErrRevoked is returned for a token that was logged out.
var ErrRevoked = errors.New("token revoked")

// Session is an authenticated admin session. Handlers receive it through
// the request context; a request without one is anonymous.
type Session struct {
	UserID    int64
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// Verifier turns session tokens into sessions, honouring revocations.
type Verifier struct {
	Secret string
	DB     *sql.DB
}

// Issue starts a session for a user and returns it with its signed token.
func (v *Verifier) Issue(userID int64, username string) (*Session, string, error) {
	s := NewSession(userID, username, time.Now())
	token, err := Sign(v.Secret, s)
	if err != nil {
		return nil, "", err
	}
	return s, token, nil
}

// Verify validates a token and checks that it has not been revoked.
func (v *Verifier) Verify(ctx context.Context, token string) (*Session, error) {
	s, err := Parse(v.Secret, token)
	if err != nil {
		return nil, err
	}

	revoked, err := store.IsTokenRevoked(ctx, v.DB, s.TokenID)
	if err != nil {
		return nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return s, nil
}

// Revoke ends a session so its token is refused until it would have
// expired anyway.
func (v *Verifier) Revoke(ctx context.Context, s *Session) error {
	if s == nil || s.TokenID == "" {
		return nil
	}
	return store.RevokeToken(ctx, v.DB, s.TokenID, s.ExpiresAt)
}

type sessionKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
