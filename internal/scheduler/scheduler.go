// Package scheduler runs periodic movers digests and answers bot commands.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/service"
)

const (
	sendRetries = 3
	jobTimeout  = 2 * time.Minute
)

// Pipeline is the subset of service.Analyzer used by jobs and commands.
type Pipeline interface {
	SnapshotMovers(ctx context.Context) ([]model.MoverRecord, []model.MoverRecord, error)
	Search(ctx context.Context, query string) ([]model.TickerCandidate, error)
	Price(ctx context.Context, ticker string) (*service.PriceQuote, error)
	Insight(ctx context.Context, ticker, period, interval string) (*model.InsightReport, error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline Pipeline
	Sender   Sender
	Ctx      context.Context
	logger   *zap.Logger
}

// NewScheduler creates a Scheduler. sender may be nil when no chat is configured.
func NewScheduler(ctx context.Context, p Pipeline, sender Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Sender:   sender,
		Ctx:      ctx,
		logger:   logger,
	}
}

// RegisterMovers schedules the movers snapshot job. expr uses the six-field cron format.
func (s *Scheduler) RegisterMovers(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.moversTask); err != nil {
		return fmt.Errorf("register movers task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunMoversNow executes the movers task immediately.
func (s *Scheduler) RunMoversNow() {
	s.moversTask()
}

func (s *Scheduler) moversTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()

	s.logger.Info("running movers task")
	gainers, losers, err := s.Pipeline.SnapshotMovers(ctx)
	if err != nil {
		s.logger.Warn("movers task", zap.Error(err))
		s.trySend(ctx, notifier.FormatMoversUnavailable())
		return
	}
	s.trySend(ctx, notifier.FormatMovers(gainers, losers))
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	command, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	// Group chats address commands as /cmd@BotName.
	command, _, _ = strings.Cut(command, "@")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "/movers":
		gainers, losers, err := s.Pipeline.SnapshotMovers(ctx)
		if err != nil {
			s.logger.Warn("movers command", zap.Error(err))
			return notifier.FormatMoversUnavailable()
		}
		return notifier.FormatMovers(gainers, losers)
	case "/search":
		if arg == "" {
			return "Usage: /search QUERY"
		}
		candidates, err := s.Pipeline.Search(ctx, arg)
		if err != nil {
			s.logger.Warn("search command", zap.String("query", arg), zap.Error(err))
			return "⚠️ Search is unavailable right now."
		}
		return notifier.FormatCandidates(arg, candidates)
	case "/analyze":
		if arg == "" {
			return "Usage: /analyze SYMBOL"
		}
		return s.analyze(ctx, arg)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) analyze(ctx context.Context, ticker string) string {
	report, err := s.Pipeline.Insight(ctx, ticker, "", "")
	if err != nil {
		s.logger.Warn("analyze command", zap.String("ticker", ticker), zap.Error(err))
		switch {
		case errors.Is(err, model.ErrDataUnavailable):
			return fmt.Sprintf("⚠️ No price data for %s.", ticker)
		case errors.Is(err, model.ErrInsufficientData):
			return fmt.Sprintf("⚠️ Not enough history for %s.", ticker)
		default:
			return "⚠️ Could not generate a report right now."
		}
	}

	var currency, price string
	if q, err := s.Pipeline.Price(ctx, ticker); err == nil {
		currency, price = q.Currency, q.Price.StringFixed(2)
	}
	return notifier.FormatInsight(report, currency, price)
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Sender == nil {
		return
	}
	if err := s.Sender.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
