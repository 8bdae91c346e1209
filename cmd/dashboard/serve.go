package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"timesheet-dashboard/internal/api"
	"timesheet-dashboard/internal/handler"
	"timesheet-dashboard/internal/service"
	"timesheet-dashboard/pkg/logger"
	"timesheet-dashboard/pkg/telegram"
	"timesheet-dashboard/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when configured, the Telegram bot",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	var traceOut io.Writer
	if a.cfg.TracesToStdout {
		traceOut = os.Stdout
	}
	shutdownTracer, err := telemetry.InitTracer("timesheet-dashboard", traceOut)
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	var notifier service.Notifier
	var client *telegram.Client
	if a.cfg.TelegramEnabled() {
		client, err = telegram.NewClient(a.cfg.TelegramToken, a.cfg.TelegramDebug)
		if err != nil {
			return err
		}
		log.Infof("Authorized on account %s", client.Bot.Self.UserName)
		notifier = telegram.NewNotifier(client.Bot, log)
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	timesheetService := service.NewTimesheetService(a.sessions, a.users, notifier, log)

	if client != nil {
		botHandler := handler.NewHandler(client.Bot, a.userService, timesheetService, a.dashboardService, a.cfg, log)
		go botHandler.HandleUpdates(ctx, client.Updates())
		defer client.Stop()
	}

	apiHandler := api.NewHandler(a.userService, timesheetService, a.dashboardService,
		a.cfg.WeekStartsOn, a.cfg.TopPerformersLimit, log)
	router := api.NewRouter(apiHandler)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvLog := logger.Component(log, "http_server")
	serveErr := make(chan error, 1)
	go func() {
		srvLog.WithField("addr", a.cfg.HTTPAddr).Info("API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	srvLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	srvLog.Info("Server exiting")
	return nil
}
