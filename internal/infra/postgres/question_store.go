package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"blurt-quest-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore loads seeded questions from Postgres. The per-level order is
// fixed by the position column; grading depends on it staying stable between
// the fetch and submit calls.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LevelQuestions(ctx context.Context, level int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, level, question, options, correct_answer, points, category
		FROM quiz_questions
		WHERE level=$1
		ORDER BY position`, level)
	if err != nil {
		return nil, fmt.Errorf("load level %d: %w", level, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.Level, &q.Prompt, &rawOptions, &q.CorrectAnswer, &q.Points, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// LoadLevel lets cache layers wrap the store as a question loader.
func (s *QuestionStore) LoadLevel(ctx context.Context, level int) ([]domain.Question, error) {
	return s.LevelQuestions(ctx, level)
}

// SeedQuestions inserts the seed set if the questions table is empty; the
// data is immutable once seeded. Returns true when this call did the seeding.
func (s *QuestionStore) SeedQuestions(ctx context.Context, questions []domain.Question) (bool, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM quiz_questions`).Scan(&count); err != nil {
		return false, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	position := make(map[int]int)
	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return false, fmt.Errorf("marshal options: %w", err)
		}
		_, err = s.pool.Exec(ctx, `
			INSERT INTO quiz_questions (id, level, position, question, options, correct_answer, points, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (level, position) DO NOTHING`,
			q.ID, q.Level, position[q.Level], q.Prompt, options, q.CorrectAnswer, q.Points, q.Category)
		if err != nil {
			return false, fmt.Errorf("insert question: %w", err)
		}
		position[q.Level]++
	}
	return true, nil
}
