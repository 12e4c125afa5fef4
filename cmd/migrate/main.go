package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-converter/internal/shared/config"
	"resume-converter/internal/shared/storage/db"
	"resume-converter/internal/shared/telemetry"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the conversion log migrations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url := databaseURL
			if strings.TrimSpace(url) == "" {
				url = config.Load().DatabaseURL
			}
			return migrate(cmd.Context(), url)
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	return cmd
}

func migrate(ctx context.Context, databaseURL string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(databaseURL) == "" {
		err := errors.New("DATABASE_URL is required")
		telemetry.Error("migrate.failed", map[string]any{"err": err})
		return err
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, databaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect.failed", map[string]any{"err": err})
		return err
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err})
		return err
	}
	telemetry.Info("migrate.complete", nil)
	return nil
}
