package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for management endpoints (optional)"`

	// Topic configuration
	TopicsDir string `long:"topics-dir" env:"TOPICS_DIR" default:"./topics" description:"Directory containing topic configuration files"`

	// Cache storage
	StorageBackend  string `long:"storage" env:"STORAGE_BACKEND" default:"sqlite" choice:"memory" choice:"sqlite" choice:"redis" description:"Cache storage backend"`
	SQLitePath      string `long:"sqlite-path" env:"SQLITE_PATH" default:"./data/newsdesk.db" description:"SQLite database path (storage=sqlite)"`
	RedisAddr       string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address (storage=redis)"`
	FreshnessWindow int    `long:"freshness-window" env:"FRESHNESS_WINDOW" default:"22" description:"Hours before a cached aggregation is considered stale"`

	// Pipeline
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for topic refresh"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	FetchTimeout      int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"8" description:"Per-feed fetch timeout in seconds"`
	FetchRetries      int `long:"fetch-retries" env:"FETCH_RETRIES" default:"2" description:"Retries per feed fetch on network errors"`

	// Summary service
	SummaryAPIURL string `long:"summary-api-url" env:"SUMMARY_API_URL" default:"https://api.openai.com/v1/chat/completions" description:"Text completion endpoint for AI digests"`
	SummaryAPIKey string `long:"summary-api-key" env:"SUMMARY_API_KEY" description:"API key for the summary service (empty disables AI digests)"`
	SummaryModel  string `long:"summary-model" env:"SUMMARY_MODEL" default:"gpt-4o-mini" description:"Model name for the summary service"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsdesk/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Seoul)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		TopicsDir:         raw.TopicsDir,
		StorageBackend:    raw.StorageBackend,
		SQLitePath:        raw.SQLitePath,
		RedisAddr:         raw.RedisAddr,
		FreshnessWindow:   raw.FreshnessWindow,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		FetchTimeout:      raw.FetchTimeout,
		FetchRetries:      raw.FetchRetries,
		SummaryAPIURL:     raw.SummaryAPIURL,
		SummaryAPIKey:     raw.SummaryAPIKey,
		SummaryModel:      raw.SummaryModel,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
