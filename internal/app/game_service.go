package app

import (
	"context"
	"time"

	"blurt-quest-service/internal/domain"
	"github.com/google/uuid"
)

// CredentialVerifier checks a posting key against the Blurt chain (or a stub).
// A false result means the key does not authorize the account; an error means
// the verifier itself failed and must not be mistaken for a bad credential.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, postingKey string) (bool, error)
}

// QuestionStore loads the ordered question set for a level (from cache/backing store).
type QuestionStore interface {
	LevelQuestions(ctx context.Context, level int) ([]domain.Question, error)
}

// CompletionUpdate reports the outcome of a conditional ledger mutation.
type CompletionUpdate struct {
	// Applied is true iff the level was not yet completed and the ledger
	// recorded it in this call.
	Applied      bool
	CurrentLevel int
	TotalScore   int
}

// Ledger is the authoritative progress store. CompleteLevel must be atomic:
// append the level, bump the score, advance the frontier and insert the
// reward claim only if the level is not already completed, all as one unit,
// so two racing submissions can never both apply.
type Ledger interface {
	// UpsertUser creates the progress record on first login (level 1, empty
	// completions, zero score) or refreshes LastActive, atomically.
	UpsertUser(ctx context.Context, username string) (domain.User, error)
	// User returns domain.ErrUserNotFound when no record exists.
	User(ctx context.Context, username string) (domain.User, error)
	CompleteLevel(ctx context.Context, username string, level, points int, claim domain.RewardClaim) (CompletionUpdate, error)
	// RecordAttempt appends one audit row per submission, pass or fail.
	RecordAttempt(ctx context.Context, attempt domain.LevelCompletion) error
	TopUsers(ctx context.Context, limit int) ([]domain.User, error)
	AllUsers(ctx context.Context) ([]domain.User, error)
	RewardClaims(ctx context.Context) ([]domain.RewardClaim, error)
	PendingRewardClaims(ctx context.Context) ([]domain.RewardClaim, error)
}

// SessionStore issues and resolves opaque bearer tokens.
type SessionStore interface {
	Issue(ctx context.Context, username string) (string, error)
	// Resolve returns domain.ErrUnauthorized for unknown or expired tokens.
	Resolve(ctx context.Context, token string) (string, error)
}

// DefaultLeaderboardLimit caps leaderboard reads when the caller passes no limit.
const DefaultLeaderboardLimit = 20

// GameService contains the quest progression use cases.
type GameService struct {
	verifier  CredentialVerifier
	questions QuestionStore
	ledger    Ledger
	sessions  SessionStore
	feed      *leaderboardFeed
	now       func() time.Time
}

func NewGameService(verifier CredentialVerifier, questions QuestionStore, ledger Ledger, sessions SessionStore) *GameService {
	return NewGameServiceWithClock(verifier, questions, ledger, sessions, time.Now)
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(verifier CredentialVerifier, questions QuestionStore, ledger Ledger, sessions SessionStore, now func() time.Time) *GameService {
	return &GameService{
		verifier:  verifier,
		questions: questions,
		ledger:    ledger,
		sessions:  sessions,
		feed:      newLeaderboardFeed(),
		now:       now,
	}
}

// Login verifies the posting key, upserts the progress record and issues a
// session token. The upsert is atomic so two simultaneous first logins for
// the same account cannot create duplicate records.
func (s *GameService) Login(ctx context.Context, username, postingKey string) (domain.Session, error) {
	ok, err := s.verifier.Verify(ctx, username, postingKey)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, domain.ErrUnauthorized
	}

	if _, err := s.ledger.UpsertUser(ctx, username); err != nil {
		return domain.Session{}, err
	}

	token, err := s.sessions.Issue(ctx, username)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, Username: username}, nil
}

// Authenticate maps a bearer token back to its username.
func (s *GameService) Authenticate(ctx context.Context, token string) (string, error) {
	return s.sessions.Resolve(ctx, token)
}

// Profile returns the progress view for an authenticated identity.
func (s *GameService) Profile(ctx context.Context, username string) (domain.Profile, error) {
	user, err := s.ledger.User(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		Username:        user.Username,
		CurrentLevel:    user.CurrentLevel,
		CompletedLevels: user.CompletedLevels,
		TotalScore:      user.TotalScore,
		LevelsCompleted: len(user.CompletedLevels),
	}, nil
}

// LevelQuestions returns the level's questions with the correct-answer index
// stripped. The order is stable; submissions are graded positionally against it.
func (s *GameService) LevelQuestions(ctx context.Context, username string, level int) ([]domain.PublicQuestion, error) {
	if err := s.checkAccess(ctx, username, level); err != nil {
		return nil, err
	}

	questions, err := s.questions.LevelQuestions(ctx, level)
	if err != nil {
		return nil, err
	}
	public := make([]domain.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, nil
}

// SubmitLevel grades an attempt and, on a first-time pass, applies the single
// atomic progress mutation and emits the reward claim.
func (s *GameService) SubmitLevel(ctx context.Context, username string, level int, answers []int, timeTakenSeconds int) (domain.SubmitResult, error) {
	if err := s.checkAccess(ctx, username, level); err != nil {
		return domain.SubmitResult{}, err
	}

	questions, err := s.questions.LevelQuestions(ctx, level)
	if err != nil {
		return domain.SubmitResult{}, err
	}

	grade, err := gradeSubmission(questions, answers)
	if err != nil {
		return domain.SubmitResult{}, err
	}

	now := s.now()
	attempt := domain.LevelCompletion{
		ID:                uuid.NewString(),
		Username:          username,
		Level:             level,
		Score:             grade.Points,
		QuestionsAnswered: len(answers),
		TimeTakenSeconds:  timeTakenSeconds,
		CompletedAt:       now,
	}
	if err := s.ledger.RecordAttempt(ctx, attempt); err != nil {
		return domain.SubmitResult{}, err
	}

	result := domain.SubmitResult{
		Level:          level,
		CorrectCount:   grade.Correct,
		TotalQuestions: len(questions),
		PointsEarned:   grade.Points,
		Passed:         grade.Passed,
		PassThreshold:  grade.Threshold,
	}
	if !grade.Passed {
		return result, nil
	}

	claim := domain.RewardClaim{
		ID:           uuid.NewString(),
		Username:     username,
		Level:        level,
		RewardAmount: float64(level) * domain.RewardPerLevel,
		Status:       domain.RewardStatusPending,
		ClaimedAt:    now,
	}
	update, err := s.ledger.CompleteLevel(ctx, username, level, grade.Points, claim)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	if update.Applied {
		result.RewardEarned = claim.RewardAmount
		result.LevelUnlocked = update.CurrentLevel == level+1
		s.publishLeaderboard(ctx)
	}
	return result, nil
}

// Leaderboard returns the top users ranked by total score.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	users, err := s.ledger.TopUsers(ctx, limit)
	if err != nil {
		return nil, err
	}
	return rankUsers(users, limit), nil
}

// SubscribeLeaderboard returns a channel that receives the ranked board after
// every applied completion. The caller must invoke cancel to avoid leaks.
func (s *GameService) SubscribeLeaderboard(ctx context.Context) (<-chan []domain.LeaderboardEntry, func(), error) {
	initial, err := s.Leaderboard(ctx, DefaultLeaderboardLimit)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.subscribe(initial)
	return ch, cancel, nil
}

// AllUsers is an administrative read of every progress record, best first.
func (s *GameService) AllUsers(ctx context.Context) ([]domain.User, error) {
	return s.ledger.AllUsers(ctx)
}

// RewardClaims is an administrative read of every claim, newest first.
func (s *GameService) RewardClaims(ctx context.Context) ([]domain.RewardClaim, error) {
	return s.ledger.RewardClaims(ctx)
}

// ExportPendingRewards aggregates pending claims for manual distribution.
func (s *GameService) ExportPendingRewards(ctx context.Context) (domain.RewardExport, error) {
	pending, err := s.ledger.PendingRewardClaims(ctx)
	if err != nil {
		return domain.RewardExport{}, err
	}
	export := domain.RewardExport{Rewards: pending, TotalClaims: len(pending)}
	for _, claim := range pending {
		export.TotalPendingRewards += claim.RewardAmount
	}
	return export, nil
}

// checkAccess enforces the level range and the unlocked frontier.
func (s *GameService) checkAccess(ctx context.Context, username string, level int) error {
	if level < domain.MinLevel || level > domain.MaxLevel {
		return domain.ErrInvalidLevel
	}
	user, err := s.ledger.User(ctx, username)
	if err != nil {
		return err
	}
	if level > user.CurrentLevel {
		return domain.ErrLevelLocked
	}
	return nil
}

func (s *GameService) publishLeaderboard(ctx context.Context) {
	entries, err := s.Leaderboard(ctx, DefaultLeaderboardLimit)
	if err != nil {
		return
	}
	s.feed.broadcast(entries)
}
