package redis

import (
	"context"
	"testing"
	"time"

	"blurt-quest-service/internal/domain"
	"blurt-quest-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionStore(sampleQuestions()),
	}
	cache := NewQuestionCache(client, loader, time.Minute)

	questions, err := cache.LevelQuestions(context.Background(), 1)
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	if len(questions) != 2 || questions[0].ID != "q1" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quest:level:1:questions") {
		t.Fatalf("expected cache key in redis")
	}

	// Second call should hit cache with the same ordered set.
	cached, err := cache.LevelQuestions(context.Background(), 1)
	if err != nil {
		t.Fatalf("load level 2nd: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != 2 || cached[0].ID != "q1" || cached[1].ID != "q2" {
		t.Fatalf("cache must preserve question order, got %+v", cached)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadLevel(ctx context.Context, level int) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadLevel(ctx, level)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Level: 1, Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, CorrectAnswer: 1, Points: 10, Category: "general"},
		{ID: "q2", Level: 1, Prompt: "What is 3 + 3?", Options: []string{"5", "6", "7"}, CorrectAnswer: 1, Points: 10, Category: "general"},
	}
}
