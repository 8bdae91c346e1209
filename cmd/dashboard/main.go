// Package main provides the CLI entrypoint of the timesheet dashboard.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"timesheet-dashboard/internal/config"
	"timesheet-dashboard/internal/database"
	"timesheet-dashboard/internal/repository"
	"timesheet-dashboard/internal/service"
	"timesheet-dashboard/pkg/logger"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Time-tracking admin dashboard",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

// app holds the dependencies shared by the subcommands.
type app struct {
	cfg      *config.DashboardConfig
	log      *logrus.Logger
	db       *gorm.DB
	users    *repository.GormUserRepository
	sessions *repository.GormSessionRepository

	userService      *service.UserService
	dashboardService *service.DashboardService
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.GetDashboardConfig()
	log := logger.New(cfg.LogLevel)

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	users, err := repository.NewGormUserRepository(db, log)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	sessions, err := repository.NewGormSessionRepository(db, log)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	a := &app{
		cfg:              cfg,
		log:              log,
		db:               db,
		users:            users,
		sessions:         sessions,
		userService:      service.NewUserService(users, cfg.BaseAdminID, log),
		dashboardService: service.NewDashboardService(sessions, users, log),
	}

	if err := a.userService.InitializeAdmin(ctx, cfg.BaseAdminID, cfg.BaseAdminEmail); err != nil {
		log.WithError(err).Warn("Failed to initialize admin")
	} else if cfg.BaseAdminID != "" {
		log.WithField("user_id", cfg.BaseAdminID).Info("Admin initialized")
	}

	return a, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.WithError(err).Warn("Error closing database")
	}
}
