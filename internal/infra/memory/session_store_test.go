package memory

import (
	"context"
	"testing"
	"time"

	"blurt-quest-service/internal/domain"
)

func TestSessionIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)

	token, err := store.Issue(ctx, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	username, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	clock := func() time.Time { return now }
	store := NewSessionStoreWithClock(24*time.Hour, clock)

	token, err := store.Issue(ctx, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	now = now.Add(24*time.Hour + time.Second)
	if _, err := store.Resolve(ctx, token); err != domain.ErrUnauthorized {
		t.Fatalf("expected unauthorized after expiry, got %v", err)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour)
	if _, err := store.Resolve(context.Background(), "bogus"); err != domain.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
