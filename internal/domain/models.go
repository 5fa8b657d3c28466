package domain

import "time"

// Level bounds for the quest. The frontier is capped at MaxLevel; clearing
// the final level does not open an eleventh.
const (
	MinLevel = 1
	MaxLevel = 10
)

// RewardPerLevel is the BLURT amount earned per level index (level 3 pays 3.0).
const RewardPerLevel = 1.0

// PassRatio is the fraction of questions that must be correct to clear a level.
const PassRatio = 0.6

// SessionTTL is how long an issued access token stays valid.
const SessionTTL = 24 * time.Hour

// User is the authoritative progress record for one Blurt account.
type User struct {
	Username        string    `json:"username"`
	CurrentLevel    int       `json:"currentLevel"`
	CompletedLevels []int     `json:"completedLevels"`
	TotalScore      int       `json:"totalScore"`
	CreatedAt       time.Time `json:"createdAt"`
	LastActive      time.Time `json:"lastActive"`
}

// Question is a seeded quiz question. CorrectAnswer indexes into Options and
// must never be serialized toward clients; see PublicQuestion.
type Question struct {
	ID            string   `json:"id"`
	Level         int      `json:"level"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Points        int      `json:"points"`
	Category      string   `json:"category"`
}

// PublicQuestion is the client-facing view with the grading secret stripped.
type PublicQuestion struct {
	ID       string   `json:"id"`
	Level    int      `json:"level"`
	Prompt   string   `json:"question"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
	Category string   `json:"category"`
}

// Public strips the correct-answer index.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:       q.ID,
		Level:    q.Level,
		Prompt:   q.Prompt,
		Options:  q.Options,
		Points:   q.Points,
		Category: q.Category,
	}
}

// LevelCompletion is an append-only audit record; every attempt produces one,
// pass or fail, and records are never deduplicated.
type LevelCompletion struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Level             int       `json:"level"`
	Score             int       `json:"score"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	TimeTakenSeconds  int       `json:"timeTakenSeconds"`
	CompletedAt       time.Time `json:"completedAt"`
}

// Reward claim statuses. The pending -> processed transition belongs to the
// external disbursement process, never to this service.
const (
	RewardStatusPending   = "pending"
	RewardStatusProcessed = "processed"
)

// RewardClaim records an entitlement to an off-system BLURT transfer.
// At most one claim exists per (username, level) over the system's lifetime.
type RewardClaim struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Level        int       `json:"level"`
	RewardAmount float64   `json:"rewardAmount"`
	Status       string    `json:"status"`
	ClaimedAt    time.Time `json:"claimedAt"`
}

// Session is an issued bearer credential bound to a username.
type Session struct {
	Token    string `json:"accessToken"`
	Username string `json:"username"`
}

// Profile is the client-facing view of a user's progress.
type Profile struct {
	Username        string `json:"username"`
	CurrentLevel    int    `json:"currentLevel"`
	CompletedLevels []int  `json:"completedLevels"`
	TotalScore      int    `json:"totalScore"`
	LevelsCompleted int    `json:"levelsCompleted"`
}

// SubmitResult summarizes one grading attempt for a level.
type SubmitResult struct {
	Level          int     `json:"level"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	PointsEarned   int     `json:"pointsEarned"`
	Passed         bool    `json:"passed"`
	PassThreshold  float64 `json:"passThreshold"`
	LevelUnlocked  bool    `json:"levelUnlocked"`
	RewardEarned   float64 `json:"rewardEarned"`
}

// LeaderboardEntry is one ranked row of the global scoreboard.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	Username        string `json:"username"`
	TotalScore      int    `json:"totalScore"`
	LevelsCompleted int    `json:"levelsCompleted"`
	CurrentLevel    int    `json:"currentLevel"`
}

// RewardExport aggregates all pending claims for manual distribution.
type RewardExport struct {
	Rewards             []RewardClaim `json:"rewards"`
	TotalPendingRewards float64       `json:"totalPendingRewards"`
	TotalClaims         int           `json:"totalClaims"`
}
