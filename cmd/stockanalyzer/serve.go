package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockAnalyzer/internal/api"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/scheduler"
)

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(false, true)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger
	cfg := a.cfg

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := api.Options{AllowedOrigins: cfg.HTTP.AllowedOrigins}
	if a.limiter != nil {
		opts.InsightLimiter = a.limiter
	}
	handler := api.NewAPIHandler(a.analyzer, opts, logger)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, a.analyzer, sender, logger)
	if cfg.Schedule.MoversCron != "" {
		if err := sched.RegisterMovers(cfg.Schedule.MoversCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		logger.Info("shutdown signal received, stopping")
	case err := <-errCh:
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	logger.Info("stockanalyzer stopped")
	return nil
}
