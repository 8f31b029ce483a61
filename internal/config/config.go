package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names accepted in the config file.
const (
	ProviderYahoo     = "yahoo"
	ProviderMock      = "mock"
	ProviderFinnhub   = "finnhub"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// TapeItem is one static ticker-tape entry.
type TapeItem struct {
	Symbol string  `yaml:"symbol"`
	Price  float64 `yaml:"price"`
	Change string  `yaml:"change"`
}

// Config holds all application configuration. It is loaded once at startup
// and passed explicitly to every client constructor.
type Config struct {
	HTTP struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"data_source"`
	Search struct {
		Provider       string `yaml:"provider"`
		BaseURL        string `yaml:"base_url"`
		RegionalSuffix string `yaml:"regional_suffix"`
		MaxResults     int    `yaml:"max_results"`
		FinnhubAPIKey  string `yaml:"finnhub_api_key"`
	} `yaml:"search"`
	Screener struct {
		BaseURL string `yaml:"base_url"`
		Count   int    `yaml:"count"`
	} `yaml:"screener"`
	LLM struct {
		Provider       string `yaml:"provider"`
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	Insight struct {
		MinBars int `yaml:"min_bars"`
	} `yaml:"insight"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	RateLimit struct {
		InsightPerMinute int `yaml:"insight_per_minute"`
	} `yaml:"rate_limit"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		MoversCron string `yaml:"movers_cron"`
	} `yaml:"schedule"`
	Tape  []TapeItem `yaml:"tape"`
	Proxy string     `yaml:"proxy"`
}

// DefaultTape mirrors the marquee shown on the dashboard when no tape is configured.
var DefaultTape = []TapeItem{
	{Symbol: "TECHM", Price: 1484.10, Change: "+0.59%"},
	{Symbol: "BHARTIARTL", Price: 1924.10, Change: "+0.47%"},
	{Symbol: "TATASTEEL", Price: 158.55, Change: "-0.66%"},
	{Symbol: "TATACONSUM", Price: 1062.10, Change: "-0.92%"},
	{Symbol: "SBIN", Price: 800.15, Change: "+0.57%"},
	{Symbol: "NESTLEIND", Price: 2255.00, Change: "-0.98%"},
}

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-1.5-pro",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// Load reads config from a YAML file, then .env, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env only fills variables that are not already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("SEARCH_PROVIDER"); v != "" {
		c.Search.Provider = v
	}
	if v := os.Getenv("REGIONAL_SUFFIX"); v != "" {
		c.Search.RegionalSuffix = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Search.FinnhubAPIKey = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("INSIGHT_MIN_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Insight.MinBars = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.PostgresURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("RATE_LIMIT_INSIGHT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit.InsightPerMinute = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_MOVERS"); v != "" {
		c.Schedule.MoversCron = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:8080"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = ProviderYahoo
	}
	if c.Search.BaseURL == "" && c.Search.Provider == ProviderYahoo {
		c.Search.BaseURL = "https://query2.finance.yahoo.com"
	}
	if c.Search.RegionalSuffix == "" {
		c.Search.RegionalSuffix = ".NS"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 10
	}
	if c.Screener.BaseURL == "" {
		c.Screener.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Screener.Count == 0 {
		c.Screener.Count = 5
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModels[c.LLM.Provider]
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = providerKeyFromEnv(c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.Insight.MinBars == 0 {
		c.Insight.MinBars = 7
	}
	if len(c.Tape) == 0 {
		c.Tape = DefaultTape
	}
}

func providerKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			return v
		}
		return os.Getenv("GOOGLE_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider must be %q or %q, got %q", ProviderYahoo, ProviderMock, c.DataSource.Provider)
	}
	switch c.Search.Provider {
	case ProviderYahoo:
	case ProviderFinnhub:
		if c.Search.FinnhubAPIKey == "" {
			return fmt.Errorf("search.finnhub_api_key is required for the finnhub search provider")
		}
	default:
		return fmt.Errorf("search.provider must be %q or %q, got %q", ProviderYahoo, ProviderFinnhub, c.Search.Provider)
	}
	if c.Screener.Count <= 0 || c.Screener.Count > 5 {
		return fmt.Errorf("screener.count must be between 1 and 5")
	}
	if c.Insight.MinBars < 1 {
		return fmt.Errorf("insight.min_bars must be positive")
	}
	if c.RateLimit.InsightPerMinute < 0 {
		return fmt.Errorf("rate_limit.insight_per_minute must not be negative")
	}
	if c.RateLimit.InsightPerMinute > 0 && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when rate_limit.insight_per_minute is set")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// ValidateLLM checks the text-generation settings. Only commands that generate reports call it.
func (c *Config) ValidateLLM() error {
	if _, ok := defaultModels[c.LLM.Provider]; !ok {
		return fmt.Errorf("llm.provider must be one of gemini, openai, anthropic, got %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (or set the provider's API key environment variable)")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("llm.timeout_seconds must not be negative")
	}
	return nil
}

// TelegramEnabled reports whether a bot token was configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}
