package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/coursecast/migrations"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

const envDSN = "COURSECAST_DB_DSN"

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect prediction history migrations",
		Long: `Run the embedded schema migrations against PostgreSQL.

The connection URL comes from --dsn, then COURSECAST_DB_DSN, then the
database section of the configuration.`,
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database connection URL")

	// run opens a migrator, applies fn, and closes it.
	run := func(cmd *cobra.Command, fn func(m *migrate.Migrate) (string, error)) error {
		url, err := resolveDSN(root, dsn)
		if err != nil {
			return err
		}

		m, err := newMigrator(url)
		if err != nil {
			return err
		}
		defer m.Close()

		msg, err := fn(m)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, func(m *migrate.Migrate) (string, error) {
					if err := ignoreNoChange(m.Up()); err != nil {
						return "", fmt.Errorf("run up migrations: %w", err)
					}
					return "migrations applied", nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, func(m *migrate.Migrate) (string, error) {
					if err := ignoreNoChange(m.Down()); err != nil {
						return "", fmt.Errorf("run down migrations: %w", err)
					}
					return "migrations reverted", nil
				})
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (negative n reverts)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n == 0 {
					return fmt.Errorf("steps must be a non-zero integer, got %q", args[0])
				}
				return run(cmd, func(m *migrate.Migrate) (string, error) {
					if err := ignoreNoChange(m.Steps(n)); err != nil {
						return "", fmt.Errorf("run migration steps: %w", err)
					}
					return fmt.Sprintf("applied %d migration steps", n), nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, func(m *migrate.Migrate) (string, error) {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						return "version: none", nil
					}
					if err != nil {
						return "", fmt.Errorf("read version: %w", err)
					}
					return fmt.Sprintf("version: %d, dirty: %v", v, dirty), nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("version must be an integer, got %q", args[0])
				}
				return run(cmd, func(m *migrate.Migrate) (string, error) {
					if err := m.Force(v); err != nil {
						return "", fmt.Errorf("force version: %w", err)
					}
					return fmt.Sprintf("forced to version %d", v), nil
				})
			},
		},
	)

	return cmd
}

func resolveDSN(root *rootOptions, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Database.URL(), nil
}

func newMigrator(url string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
