package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionLifetime is how long a signed-in session stays valid.
const SessionLifetime = 7 * 24 * time.Hour

const issuer = "nakupi"

// sessionClaims carry the user id in the subject and the token id in jti.
type sessionClaims struct {
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

// NewSession starts a session for a user at now with a fresh token id.
func NewSession(userID int64, username string, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		Username:  username,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(SessionLifetime).Truncate(time.Second),
	}
}

// Sign encodes a session as an HS256 token.
func Sign(secret string, s *Session) (string, error) {
	claims := sessionClaims{
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(s.UserID, 10),
			ID:        s.TokenID,
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(s.ExpiresAt.Add(-SessionLifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse validates a token's signature, issuer and expiry and returns the
// session it encodes. Revocation is not checked here.
func Parse(secret, token string) (*Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.New("parsing token: bad subject")
	}
	if claims.ID == "" {
		return nil, errors.New("parsing token: missing token id")
	}

	return &Session{
		UserID:    userID,
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
