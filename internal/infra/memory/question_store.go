package memory

import (
	"context"

	"blurt-quest-service/internal/domain"
)

// QuestionLoader fetches a level's question set from a backing store.
type QuestionLoader interface {
	LoadLevel(ctx context.Context, level int) ([]domain.Question, error)
}

// StaticQuestionStore serves questions from an in-memory map keyed by level
// (useful for tests, demos, and running without Postgres).
type StaticQuestionStore struct {
	byLevel map[int][]domain.Question
}

func NewStaticQuestionStore(questions []domain.Question) *StaticQuestionStore {
	byLevel := make(map[int][]domain.Question)
	for _, q := range questions {
		byLevel[q.Level] = append(byLevel[q.Level], q)
	}
	return &StaticQuestionStore{byLevel: byLevel}
}

func (s *StaticQuestionStore) LevelQuestions(_ context.Context, level int) ([]domain.Question, error) {
	questions := s.byLevel[level]
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

func (s *StaticQuestionStore) LoadLevel(ctx context.Context, level int) ([]domain.Question, error) {
	return s.LevelQuestions(ctx, level)
}
