package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"blurt-quest-service/internal/app"
	"blurt-quest-service/internal/domain"
	"blurt-quest-service/internal/infra/memory"
	pgstore "blurt-quest-service/internal/infra/postgres"
	pgmigrations "blurt-quest-service/internal/infra/postgres/migrations"
	redisstore "blurt-quest-service/internal/infra/redis"
	"blurt-quest-service/internal/seed"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuestEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	questionStore := pgstore.NewQuestionStore(pool)
	if seeded, err := questionStore.SeedQuestions(ctx, seed.Questions()); err != nil || !seeded {
		t.Fatalf("seed questions: seeded=%v err=%v", seeded, err)
	}

	redisOpts, err := goredis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("redis url: %v", err)
	}
	redisClient := goredis.NewClient(redisOpts)
	defer redisClient.Close()

	verifier := memory.NewStaticVerifier(map[string]string{"alice": "key-alice"})
	ledger := pgstore.NewLedger(pool)
	questions := redisstore.NewQuestionCache(redisClient, questionStore, 5*time.Minute)
	sessions := redisstore.NewSessionStore(redisClient, domain.SessionTTL)
	service := app.NewGameService(verifier, questions, ledger, sessions)

	session, err := service.Login(ctx, "alice", "key-alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if username, err := service.Authenticate(ctx, session.Token); err != nil || username != "alice" {
		t.Fatalf("authenticate: username=%q err=%v", username, err)
	}

	// Seed level 1 answers: Jupiter, Oxygen, Paris.
	result, err := service.SubmitLevel(ctx, "alice", 1, []int{1, 2, 3}, 30)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.CorrectCount != 3 || result.PointsEarned != 30 || !result.Passed {
		t.Fatalf("unexpected grade: %+v", result)
	}
	if !result.LevelUnlocked || result.RewardEarned != 1.0 {
		t.Fatalf("expected unlock with reward, got %+v", result)
	}

	// Repeat pass must not double-reward even through the real database.
	repeat, err := service.SubmitLevel(ctx, "alice", 1, []int{1, 2, 3}, 20)
	if err != nil {
		t.Fatalf("repeat submit: %v", err)
	}
	if repeat.RewardEarned != 0 || repeat.LevelUnlocked {
		t.Fatalf("repeat pass must be inert: %+v", repeat)
	}

	profile, err := service.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.CurrentLevel != 2 || profile.TotalScore != 30 || profile.LevelsCompleted != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	claims, err := service.RewardClaims(ctx)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if len(claims) != 1 || claims[0].Status != domain.RewardStatusPending {
		t.Fatalf("expected one pending claim, got %+v", claims)
	}

	entries, err := service.Leaderboard(ctx, 20)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank != 1 || entries[0].TotalScore != 30 {
		t.Fatalf("unexpected leaderboard: %+v", entries)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quest", "POSTGRES_PASSWORD": "questpass", "POSTGRES_DB": "questdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quest:questpass@%s:%s/questdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
