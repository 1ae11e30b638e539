package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/nakupi/internal/db"
)

func TestVerifierRevoke(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	v := &Verifier{Secret: "secret", DB: database}

	issued, token, err := v.Issue(7, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	s, err := v.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if s.UserID != 7 || s.Username != "admin" || s.TokenID != issued.TokenID {
		t.Errorf("unexpected session: %+v", s)
	}

	if err := v.Revoke(ctx, s); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if _, err := v.Verify(ctx, token); !errors.Is(err, ErrRevoked) {
		t.Errorf("expected ErrRevoked, got %v", err)
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	if SessionFrom(ctx) != nil {
		t.Error("expected no session in empty context")
	}

	s := &Session{UserID: 1, Username: "admin"}
	if got := SessionFrom(WithSession(ctx, s)); got != s {
		t.Errorf("expected session back, got %+v", got)
	}
}
