package news

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTopicFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write topic file: %v", err)
	}
}

func TestTopicCacheLoadsConfigs(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "overseas.yml", `
settings:
  enabled: true
  max_age_days: 3
  limit: 25
feeds:
  - url: https://example.com/feed.xml
    format: rss
    source: Example Wire
`)

	tc := NewTopicCache(dir)
	if err := tc.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if tc.GetConfigCount() != 1 {
		t.Fatalf("Expected 1 config, got: %d", tc.GetConfigCount())
	}

	config, err := tc.GetConfig("overseas")
	if err != nil {
		t.Fatalf("Expected config found, got: %v", err)
	}
	if config.Name != "overseas" {
		t.Errorf("Expected name derived from filename, got: %s", config.Name)
	}
	if config.Settings.MaxAgeDays != 3 {
		t.Errorf("Expected max_age_days 3, got: %d", config.Settings.MaxAgeDays)
	}
	if config.Settings.Limit != 25 {
		t.Errorf("Expected limit 25, got: %d", config.Settings.Limit)
	}
	if len(config.Feeds) != 1 || config.Feeds[0].Source != "Example Wire" {
		t.Errorf("Expected feed with source label, got: %+v", config.Feeds)
	}
}

func TestTopicCacheAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "korea.yml", `
settings:
  enabled: true
feeds:
  - url: https://example.com/feed.xml
`)

	tc := NewTopicCache(dir)
	if err := tc.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	config, err := tc.GetConfig("korea")
	if err != nil {
		t.Fatalf("Expected config found, got: %v", err)
	}
	if config.Settings.MaxAgeDays != DefaultMaxAgeDays {
		t.Errorf("Expected default max_age_days %d, got: %d", DefaultMaxAgeDays, config.Settings.MaxAgeDays)
	}
	if config.Settings.Limit != DefaultLimit {
		t.Errorf("Expected default limit %d, got: %d", DefaultLimit, config.Settings.Limit)
	}
	if config.Settings.Timeout != 8 {
		t.Errorf("Expected default timeout 8, got: %d", config.Settings.Timeout)
	}
}

func TestTopicCacheValidation(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "broken.yml", `
settings:
  enabled: true
feeds: []
`)

	tc := NewTopicCache(dir)
	if err := tc.Run(); err == nil {
		t.Error("Expected validation error for topic without feeds")
	}
}

func TestTopicCacheInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "badformat.yml", `
settings:
  enabled: true
feeds:
  - url: https://example.com/feed
    format: csv
`)

	tc := NewTopicCache(dir)
	if err := tc.Run(); err == nil {
		t.Error("Expected validation error for unknown feed format")
	}
}

func TestTopicCacheEnabledConfigs(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "on.yml", `
settings:
  enabled: true
feeds:
  - url: https://example.com/a
`)
	writeTopicFile(t, dir, "off.yml", `
settings:
  enabled: false
feeds:
  - url: https://example.com/b
`)

	tc := NewTopicCache(dir)
	if err := tc.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	enabled := tc.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got: %d", len(enabled))
	}
	if _, ok := enabled["on"]; !ok {
		t.Error("Expected 'on' topic in enabled configs")
	}
}
