package postgres

import (
	"context"
	"errors"
	"fmt"

	"blurt-quest-service/internal/app"
	"blurt-quest-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Ledger is the Postgres implementation of app.Ledger.
//
// CompleteLevel relies on a conditional UPDATE (level not yet in the
// completed set) plus the UNIQUE (username, level) constraint on
// reward_claims, so two racing submissions can never both bump the score or
// emit two claims. Progress mutation and claim insert share one transaction.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

const userColumns = `username, current_level, completed_levels, total_score, created_at, last_active`

func (l *Ledger) UpsertUser(ctx context.Context, username string) (domain.User, error) {
	row := l.pool.QueryRow(ctx, `
		INSERT INTO quest_users (username)
		VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET last_active = now()
		RETURNING `+userColumns,
		username)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

func (l *Ledger) User(ctx context.Context, username string) (domain.User, error) {
	row := l.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM quest_users WHERE username=$1`, username)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (l *Ledger) CompleteLevel(ctx context.Context, username string, level, points int, claim domain.RewardClaim) (app.CompletionUpdate, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return app.CompletionUpdate{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var update app.CompletionUpdate
	err = tx.QueryRow(ctx, `
		UPDATE quest_users
		SET completed_levels = array_append(completed_levels, $2),
		    total_score = total_score + $3,
		    current_level = CASE WHEN current_level = $2 THEN LEAST($2 + 1, $4) ELSE current_level END,
		    last_active = now()
		WHERE username = $1 AND NOT (completed_levels @> ARRAY[$2]::int[])
		RETURNING current_level, total_score`,
		username, level, points, domain.MaxLevel,
	).Scan(&update.CurrentLevel, &update.TotalScore)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Either the level was already completed or the user is missing;
		// read back the current state to tell the two apart.
		err = tx.QueryRow(ctx, `SELECT current_level, total_score FROM quest_users WHERE username=$1`, username).
			Scan(&update.CurrentLevel, &update.TotalScore)
		if errors.Is(err, pgx.ErrNoRows) {
			return app.CompletionUpdate{}, domain.ErrUserNotFound
		}
		if err != nil {
			return app.CompletionUpdate{}, fmt.Errorf("reload user: %w", err)
		}
		return update, tx.Commit(ctx)
	case err != nil:
		return app.CompletionUpdate{}, fmt.Errorf("complete level: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reward_claims (id, username, level, reward_amount, status, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (username, level) DO NOTHING`,
		claim.ID, claim.Username, claim.Level, claim.RewardAmount, claim.Status, claim.ClaimedAt)
	if err != nil {
		return app.CompletionUpdate{}, fmt.Errorf("insert reward claim: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return app.CompletionUpdate{}, fmt.Errorf("commit: %w", err)
	}
	update.Applied = true
	return update, nil
}

func (l *Ledger) RecordAttempt(ctx context.Context, attempt domain.LevelCompletion) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO level_completions (id, username, level, score, questions_answered, time_taken_seconds, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.ID, attempt.Username, attempt.Level, attempt.Score,
		attempt.QuestionsAnswered, attempt.TimeTakenSeconds, attempt.CompletedAt)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (l *Ledger) TopUsers(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT `+userColumns+` FROM quest_users
		ORDER BY total_score DESC, username ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (l *Ledger) AllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT `+userColumns+` FROM quest_users
		ORDER BY total_score DESC, username ASC`)
	if err != nil {
		return nil, fmt.Errorf("all users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

const claimColumns = `id, username, level, reward_amount, status, claimed_at`

func (l *Ledger) RewardClaims(ctx context.Context) ([]domain.RewardClaim, error) {
	rows, err := l.pool.Query(ctx, `SELECT `+claimColumns+` FROM reward_claims ORDER BY claimed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("reward claims: %w", err)
	}
	defer rows.Close()
	return collectClaims(rows)
}

func (l *Ledger) PendingRewardClaims(ctx context.Context) ([]domain.RewardClaim, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT `+claimColumns+` FROM reward_claims
		WHERE status=$1 ORDER BY claimed_at ASC`, domain.RewardStatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending reward claims: %w", err)
	}
	defer rows.Close()
	return collectClaims(rows)
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	var completed []int32
	err := row.Scan(&user.Username, &user.CurrentLevel, &completed, &user.TotalScore, &user.CreatedAt, &user.LastActive)
	if err != nil {
		return domain.User{}, err
	}
	user.CompletedLevels = make([]int, 0, len(completed))
	for _, level := range completed {
		user.CompletedLevels = append(user.CompletedLevels, int(level))
	}
	return user, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func collectClaims(rows pgx.Rows) ([]domain.RewardClaim, error) {
	var claims []domain.RewardClaim
	for rows.Next() {
		var claim domain.RewardClaim
		if err := rows.Scan(&claim.ID, &claim.Username, &claim.Level, &claim.RewardAmount, &claim.Status, &claim.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}
