package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blogmaster/core/internal/adapters/repository"
	"github.com/blogmaster/core/internal/infrastructure/config"
	"github.com/blogmaster/core/internal/infrastructure/database"
	"github.com/blogmaster/core/internal/infrastructure/logger"
	"github.com/blogmaster/core/internal/infrastructure/server"
	"github.com/blogmaster/core/internal/ports"
)

// Build information, set with -ldflags
var (
	Version = "1.0.0"
	Commit  = "development"
)

// NewRootCommand assembles the blogmaster CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blogmaster",
		Short:         "BlogMaster blog server",
		Long:          `BlogMaster stores blog posts in a JSON file or PostgreSQL and serves them as HTML pages, a JSON API and an RSS feed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewPostsCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the BlogMaster server",
		Long:  "Start the HTTP server with the HTML pages, JSON API, RSS feed and operational endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the PostgreSQL schema (up, down, version). Requires storage.driver=postgres.",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion(cmd)
		},
	})

	return migrateCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print BlogMaster version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BlogMaster v%s\n", Version)
			fmt.Fprintf(out, "Git Commit: %s\n", Commit)
		},
	}
}

// env is what every command needs once configuration is loaded
type env struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.DB
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &env{cfg: cfg, logger: appLogger}, nil
}

// postRepository opens the post repository selected by storage.driver
func (e *env) postRepository() (ports.PostRepository, error) {
	if !e.cfg.Storage.UsesPostgres() {
		return repository.NewPostFileRepository(e.cfg.Storage.Path), nil
	}

	db, err := e.database()
	if err != nil {
		return nil, err
	}
	return repository.NewPostgresPostRepository(db), nil
}

func (e *env) database() (*database.DB, error) {
	if e.db != nil {
		return e.db, nil
	}

	db, err := database.New(e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	e.db = db
	return db, nil
}

func (e *env) close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close database")
		}
	}
	_ = e.logger.Close()
}

func runServer(ctx context.Context) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	repo, err := e.postRepository()
	if err != nil {
		return err
	}

	srv, err := server.New(e.cfg, repo, e.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	e.logger.Infow("Starting BlogMaster server",
		"port", e.cfg.Server.Port,
		"environment", e.cfg.App.Environment,
		"storage", e.cfg.Storage.Driver,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(e.cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	e.logger.Info("Server stopped")
	return nil
}

func openMigrator(e *env) (*database.Migrator, error) {
	if !e.cfg.Storage.UsesPostgres() {
		return nil, fmt.Errorf("migrations need storage driver %q, configured %q", config.StorageDriverPostgres, e.cfg.Storage.Driver)
	}

	db, err := e.database()
	if err != nil {
		return nil, err
	}

	return database.NewMigrator(db)
}

func runMigration(cmd *cobra.Command, direction string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	m, err := openMigrator(e)
	if err != nil {
		return err
	}

	var changed bool
	switch direction {
	case "up":
		changed, err = m.Up()
	case "down":
		changed, err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion(cmd *cobra.Command) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	m, err := openMigrator(e)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
	return nil
}
