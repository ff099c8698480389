package news

import (
	"time"
)

// Feed payload formats

type Format string

const (
	FormatRSS  Format = "rss"
	FormatJSON Format = "json"
)

// RawItem is the provider-shaped item produced by the parser, before
// normalization. Fields hold whatever the upstream gave us, verbatim.
type RawItem struct {
	Title       string
	Link        string
	Published   *time.Time // nil when absent or unparseable
	Source      string
	Description string
}

// Item is the canonical record served to consumers and stored in the cache.
type Item struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      string     `json:"source"`
	Description string     `json:"description,omitempty"`
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Settings ConfigSettings `yaml:"settings"`
	Feeds    []ConfigFeed   `yaml:"feeds"`
}

type ConfigSettings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	MaxAgeDays      int    `yaml:"max_age_days"`
	Limit           int    `yaml:"limit"`
	Timeout         int    `yaml:"timeout"` // seconds, per-feed fetch
	SummaryPrompt   string `yaml:"summary_prompt"`
}

type ConfigFeed struct {
	URL    string `yaml:"url"`
	Format Format `yaml:"format"`
	Source string `yaml:"source"` // optional label, overrides host-derived source
}
