package cli

import (
	"fmt"
	"log"

	"blurt-quest-service/internal/config"
	pgstore "blurt-quest-service/internal/infra/postgres"
	"blurt-quest-service/internal/seed"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the quiz question set into Postgres if it is empty.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed quiz questions into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeded, err := pgstore.NewQuestionStore(pool).SeedQuestions(ctx, seed.Questions())
			if err != nil {
				return err
			}
			if seeded {
				log.Printf("seeded quiz questions")
			} else {
				log.Printf("questions already seeded, nothing to do")
			}
			return nil
		},
	}
}
