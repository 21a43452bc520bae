package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/hockey-ingest/internal/app"
	"github.com/riskibarqy/hockey-ingest/internal/config"
	"github.com/spf13/cobra"
)

// newMigrateCmd provisions the store schema read by validate. The validator
// never creates tables itself.
func newMigrateCmd(rt *runtime) *cobra.Command {
	var dir, dbURL, driver string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect store schema migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Migrations directory (default: MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
	cmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "Database url or sqlite path (default: DB_URL)")
	cmd.PersistentFlags().StringVar(&driver, "driver", "", "Database driver: postgres or sqlite3 (default: DB_DRIVER)")

	withMigrator := func(run func(m *migrate.Migrate, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if cmd.Flags().Changed("db-url") {
				cfg.DBURL = strings.TrimSpace(dbURL)
			}
			if cmd.Flags().Changed("driver") {
				cfg.DBDriver = strings.ToLower(strings.TrimSpace(driver))
			}
			if cfg.DBURL == "" {
				return withCode(exitUsage, errors.New("DB_URL is required for migrations"))
			}
			if cfg.DBDriver != config.DBDriverPostgres && cfg.DBDriver != config.DBDriverSQLite {
				return withCode(exitUsage, fmt.Errorf("unsupported db driver %q", cfg.DBDriver))
			}

			migrationsDir, err := resolveMigrationsDir(dir)
			if err != nil {
				return withCode(exitUsage, err)
			}
			sourceURL := "file://" + filepath.ToSlash(migrationsDir)
			m, err := migrate.New(sourceURL, app.MigrationDatabaseURL(cfg))
			if err != nil {
				return fmt.Errorf("create migrator: %w", err)
			}
			defer func() {
				srcErr, dbErr := m.Close()
				if srcErr != nil {
					rt.logger.Warn("close migration source failed", "error", srcErr)
				}
				if dbErr != nil {
					rt.logger.Warn("close migration db failed", "error", dbErr)
				}
			}()
			rt.logger.Debug("migration source resolved", "source", sourceURL, "driver", cfg.DBDriver)
			return run(m, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
				if err := ignoreNoChange(m.Up()); err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				return reportVersion(rt, m)
			}),
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return withCode(exitUsage, err)
				}
				if err := ignoreNoChange(m.Steps(-steps)); err != nil {
					return fmt.Errorf("migrate down %d: %w", steps, err)
				}
				return reportVersion(rt, m)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
				return reportVersion(rt, m)
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark a version as applied without running it",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
				version, err := parseVersion(args[0])
				if err != nil {
					return withCode(exitUsage, err)
				}
				if err := m.Force(version); err != nil {
					return fmt.Errorf("force version %d: %w", version, err)
				}
				return reportVersion(rt, m)
			}),
		},
		&cobra.Command{
			Use:     "goto <version>",
			Aliases: []string{"migrate"},
			Short:   "Migrate up or down to a target version",
			Args:    cobra.ExactArgs(1),
			RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
				target, err := parseVersion(args[0])
				if err != nil {
					return withCode(exitUsage, err)
				}
				if err := ignoreNoChange(m.Migrate(uint(target))); err != nil {
					return fmt.Errorf("migrate to %d: %w", target, err)
				}
				return reportVersion(rt, m)
			}),
		},
	)
	return cmd
}

type migrationVersion struct {
	Version *uint `json:"version"`
	Dirty   bool  `json:"dirty"`
}

func reportVersion(rt *runtime, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return writeJSON(rt.out, migrationVersion{})
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	return writeJSON(rt.out, migrationVersion{Version: &version, Dirty: dirty})
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}
	return int(value), nil
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := []string{
		strings.TrimSpace(explicit),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
