package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/boardinghouse/backend/internal/infrastructure/logger"
	"github.com/boardinghouse/backend/internal/infrastructure/migration"
	"github.com/boardinghouse/backend/migrations"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Boarding house database migration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			log, err = logger.New(&logger.Config{
				Level:      logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "",
		"Migrations directory; the embedded migrations are used when empty (create and list default to ./migrations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		upCmd(),
		downCmd(),
		stepsCmd(),
		gotoCmd(),
		versionCmd(),
		forceCmd(),
		createCmd(),
		listCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withMigrator connects to the configured PostgreSQL database and runs fn
func withMigrator(fn func(m *migration.Migrator) error) error {
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, migrationsPath, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return fn(m)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(m *migration.Migrator) error { return m.Up() })
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(m *migration.Migrator) error { return m.Down() })
		},
	}
}

func stepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations (positive=up, negative=down)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
		},
	}
}

func gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version number %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(version)) })
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version",
					zap.Uint("version", version),
					zap.Bool("dirty", dirty),
				)
				return nil
			})
		},
	}
}

func forceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations (repairs a dirty database)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version number %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
		},
	}
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create the next numbered up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(localPath(), args[0], description)
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migration files on disk",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			names, err := migration.ListMigrations(localPath())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				log.Info("No migrations found")
				return nil
			}
			for _, name := range names {
				fmt.Println("  -", name)
			}
			return nil
		},
	}
}

func localPath() string {
	if migrationsPath != "" {
		return migrationsPath
	}
	return defaultMigrationsPath
}
