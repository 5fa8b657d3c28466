package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"blurt-quest-service/internal/app"
	"blurt-quest-service/internal/domain"
)

// Ledger is an in-memory implementation of app.Ledger. All conditional
// progress mutations happen under a single lock, which is what makes
// CompleteLevel atomic with respect to racing submissions.
type Ledger struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	attempts []domain.LevelCompletion
	claims   []domain.RewardClaim
	clock    func() time.Time
}

func NewLedger() *Ledger {
	return NewLedgerWithClock(time.Now)
}

// NewLedgerWithClock allows deterministic timestamps in tests.
func NewLedgerWithClock(clock func() time.Time) *Ledger {
	return &Ledger{
		users: make(map[string]*domain.User),
		clock: clock,
	}
}

func (l *Ledger) UpsertUser(_ context.Context, username string) (domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if user, ok := l.users[username]; ok {
		user.LastActive = now
		return copyUser(user), nil
	}
	user := &domain.User{
		Username:        username,
		CurrentLevel:    domain.MinLevel,
		CompletedLevels: []int{},
		CreatedAt:       now,
		LastActive:      now,
	}
	l.users[username] = user
	return copyUser(user), nil
}

func (l *Ledger) User(_ context.Context, username string) (domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (l *Ledger) CompleteLevel(_ context.Context, username string, level, points int, claim domain.RewardClaim) (app.CompletionUpdate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users[username]
	if !ok {
		return app.CompletionUpdate{}, domain.ErrUserNotFound
	}

	for _, completed := range user.CompletedLevels {
		if completed == level {
			return app.CompletionUpdate{
				Applied:      false,
				CurrentLevel: user.CurrentLevel,
				TotalScore:   user.TotalScore,
			}, nil
		}
	}

	user.CompletedLevels = append(user.CompletedLevels, level)
	user.TotalScore += points
	if level == user.CurrentLevel && level < domain.MaxLevel {
		user.CurrentLevel = level + 1
	}
	user.LastActive = l.clock()
	l.claims = append(l.claims, claim)

	return app.CompletionUpdate{
		Applied:      true,
		CurrentLevel: user.CurrentLevel,
		TotalScore:   user.TotalScore,
	}, nil
}

func (l *Ledger) RecordAttempt(_ context.Context, attempt domain.LevelCompletion) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, attempt)
	return nil
}

func (l *Ledger) TopUsers(ctx context.Context, limit int) ([]domain.User, error) {
	users, err := l.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (l *Ledger) AllUsers(_ context.Context) ([]domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users := make([]domain.User, 0, len(l.users))
	for _, user := range l.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalScore != users[j].TotalScore {
			return users[i].TotalScore > users[j].TotalScore
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (l *Ledger) RewardClaims(_ context.Context) ([]domain.RewardClaim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	claims := make([]domain.RewardClaim, len(l.claims))
	copy(claims, l.claims)
	// Newest first, matching the postgres ledger's ordering.
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].ClaimedAt.After(claims[j].ClaimedAt)
	})
	return claims, nil
}

func (l *Ledger) PendingRewardClaims(_ context.Context) ([]domain.RewardClaim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending := make([]domain.RewardClaim, 0, len(l.claims))
	for _, claim := range l.claims {
		if claim.Status == domain.RewardStatusPending {
			pending = append(pending, claim)
		}
	}
	return pending, nil
}

// Attempts is test-only visibility into the audit log.
func (l *Ledger) Attempts() []domain.LevelCompletion {
	l.mu.Lock()
	defer l.mu.Unlock()
	attempts := make([]domain.LevelCompletion, len(l.attempts))
	copy(attempts, l.attempts)
	return attempts
}

func copyUser(user *domain.User) domain.User {
	out := *user
	out.CompletedLevels = make([]int, len(user.CompletedLevels))
	copy(out.CompletedLevels, user.CompletedLevels)
	return out
}
