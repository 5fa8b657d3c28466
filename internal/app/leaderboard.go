package app

import (
	"sort"

	"blurt-quest-service/internal/domain"
)

// rankUsers orders users by total score descending (username ascending as a
// deterministic tie-break for pagination stability) and assigns dense
// 1-based ranks.
func rankUsers(users []domain.User, limit int) []domain.LeaderboardEntry {
	sorted := make([]domain.User, len(users))
	copy(sorted, users)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore > sorted[j].TotalScore
		}
		return sorted[i].Username < sorted[j].Username
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(sorted))
	for i, user := range sorted {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:            i + 1,
			Username:        user.Username,
			TotalScore:      user.TotalScore,
			LevelsCompleted: len(user.CompletedLevels),
			CurrentLevel:    user.CurrentLevel,
		})
	}
	return entries
}
