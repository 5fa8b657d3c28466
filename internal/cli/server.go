package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blurt-quest-service/internal/app"
	"blurt-quest-service/internal/config"
	"blurt-quest-service/internal/domain"
	"blurt-quest-service/internal/infra/blurt"
	"blurt-quest-service/internal/infra/memory"
	pgstore "blurt-quest-service/internal/infra/postgres"
	redisstore "blurt-quest-service/internal/infra/redis"
	"blurt-quest-service/internal/seed"
	transport "blurt-quest-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quest server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var ledger app.Ledger
	if pool != nil {
		ledger = pgstore.NewLedger(pool)
	} else {
		ledger = memory.NewLedger()
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	var questions app.QuestionStore
	if pool != nil {
		store := pgstore.NewQuestionStore(pool)
		if seeded, err := store.SeedQuestions(ctx, seed.Questions()); err != nil {
			return err
		} else if seeded {
			log.Printf("seeded quiz questions")
		}
		if redisClient != nil {
			questions = redisstore.NewQuestionCache(redisClient, store, cacheTTL)
		} else {
			questions = memory.NewQuestionCache(store, cacheTTL)
		}
	} else {
		questions = memory.NewStaticQuestionStore(seed.Questions())
	}

	sessionTTL := config.TTLDuration(cfg.Redis.SessionTTL, domain.SessionTTL)
	var sessions app.SessionStore
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}

	var verifier app.CredentialVerifier
	if cfg.Blurt.NodeURL != "" {
		timeout := config.TTLDuration(cfg.Blurt.Timeout, 15*time.Second)
		verifier = blurt.NewVerifier(
			blurt.WithNodeURL(cfg.Blurt.NodeURL),
			blurt.WithHTTPClient(&http.Client{Timeout: timeout}),
		)
	} else {
		log.Printf("blurt node not configured, using static dev accounts")
		verifier = memory.NewStaticVerifier(cfg.Auth.DevAccounts)
	}

	service := app.NewGameService(verifier, questions, ledger, sessions)
	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting blurt quest service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
