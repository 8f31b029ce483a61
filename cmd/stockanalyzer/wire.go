package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/httpclient"
	"StockAnalyzer/internal/insight"
	"StockAnalyzer/internal/llm"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/ratelimit"
	"StockAnalyzer/internal/recorder"
	"StockAnalyzer/internal/screener"
	"StockAnalyzer/internal/search"
	"StockAnalyzer/internal/service"
)

// app holds everything built from the config for one process.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *service.Analyzer
	recorder recorder.Recorder
	limiter  *ratelimit.RedisLimiter
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	var zcfg zap.Config
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// loadApp reads config and builds the pipeline. requireLLM fails fast when
// text generation is not configured; otherwise insights are just disabled.
func loadApp(requireLLM, withStorage bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, recorder: recorder.NewNoopRecorder()}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderMock:
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	logger.Info("data source", zap.String("provider", fetcher.Name()))

	var searcher search.Searcher
	switch cfg.Search.Provider {
	case config.ProviderFinnhub:
		searcher = search.NewFinnhubSearcher(cfg.Search.FinnhubAPIKey, cfg.Search.BaseURL, httpclient.New(cfg.Proxy, 15*time.Second))
	default:
		searcher = search.NewYahooSearcher(cfg.Search.BaseURL, cfg.Search.MaxResults, cfg.Proxy)
	}

	deps := service.Deps{
		History:        collector.NewCollector(fetcher, logger),
		Resolver:       search.NewResolver(searcher, cfg.Search.RegionalSuffix, logger),
		Movers:         screener.NewFeed(cfg.Screener.BaseURL, cfg.Screener.Count, cfg.Proxy, logger),
		Tape:           tapeEntries(cfg.Tape),
		RegionalSuffix: cfg.Search.RegionalSuffix,
	}

	if err := cfg.ValidateLLM(); err != nil {
		if requireLLM {
			return nil, err
		}
		logger.Warn("AI insights disabled", zap.Error(err))
	} else {
		client, err := llm.New(llm.Settings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
			Timeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("init llm: %w", err)
		}
		deps.Insights = insight.NewGenerator(client, cfg.Insight.MinBars, logger)
		logger.Info("text generation", zap.String("model", client.Name()))
	}

	if withStorage {
		rec, err := recorder.Open(cfg.Database.SQLitePath, cfg.Database.PostgresURL, logger)
		if err != nil {
			logger.Warn("init recorder failed, using noop", zap.Error(err))
		} else {
			a.recorder = rec
		}

		if cfg.RateLimit.InsightPerMinute > 0 {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, limiter will fail open", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			}
			cancel()
			a.limiter = ratelimit.NewRedisLimiter(client, "insight", cfg.RateLimit.InsightPerMinute, time.Minute)
		}
	}
	deps.Recorder = a.recorder

	a.analyzer = service.NewAnalyzer(deps, logger)
	return a, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("close recorder", zap.Error(err))
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	a.logger.Sync()
}

func tapeEntries(items []config.TapeItem) []model.TapeEntry {
	entries := make([]model.TapeEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.TapeEntry{
			Symbol: it.Symbol,
			Price:  decimal.NewFromFloat(it.Price),
			Change: it.Change,
		})
	}
	return entries
}
