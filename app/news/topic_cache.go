package news

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// TopicCache loads topic configurations from a directory of YAML files and
// holds them for lookup. The topic name is derived from the filename.
type TopicCache struct {
	topicsDir string
	cache     map[string]*Config
	mu        sync.RWMutex
}

func NewTopicCache(topicsDir string) *TopicCache {
	return &TopicCache{
		topicsDir: topicsDir,
		cache:     make(map[string]*Config),
	}
}

func (tc *TopicCache) Run() error {
	if _, err := os.Stat(tc.topicsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(tc.topicsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		topicName := fileName[:len(fileName)-4] // Remove .yml extension

		config, err := tc.LoadConfig(topicName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Topic configuration loaded", "topic", topicName,
			"enabled", config.Settings.Enabled, "feeds", len(config.Feeds))
	}

	return nil
}

func (tc *TopicCache) LoadConfig(topicName string) (*Config, error) {
	configFile := tc.getConfigFilePath(topicName)
	topicConfig, err := tc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	topicConfig.Name = topicName

	if err := tc.validateConfig(topicConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.cache[topicConfig.Name] = topicConfig

	return topicConfig, nil
}

func (tc *TopicCache) GetConfig(topicName string) (*Config, error) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	topicConfig, ok := tc.cache[topicName]
	if !ok {
		return nil, fmt.Errorf("topic config with name '%s' not found", topicName)
	}
	return topicConfig, nil
}

func (tc *TopicCache) GetConfigs() map[string]*Config {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(tc.cache))
	for k, v := range tc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (tc *TopicCache) GetEnabledConfigs() map[string]*Config {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range tc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (tc *TopicCache) GetConfigCount() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.cache)
}

func (tc *TopicCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var topicConfig Config
	if err := yaml.Unmarshal(data, &topicConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if topicConfig.Settings.RefreshInterval == 0 {
		topicConfig.Settings.RefreshInterval = 3600
	}
	if topicConfig.Settings.MaxAgeDays == 0 {
		topicConfig.Settings.MaxAgeDays = DefaultMaxAgeDays
	}
	if topicConfig.Settings.Limit == 0 {
		topicConfig.Settings.Limit = DefaultLimit
	}
	if topicConfig.Settings.Timeout == 0 {
		topicConfig.Settings.Timeout = 8
	}

	return &topicConfig, nil
}

func (tc *TopicCache) validateConfig(topicConfig *Config) error {
	if topicConfig == nil {
		return fmt.Errorf("topicConfig is nil")
	}

	if topicConfig.Name == "" {
		return fmt.Errorf("topic name is required")
	}
	if len(topicConfig.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}

	for i, feed := range topicConfig.Feeds {
		if feed.URL == "" {
			return fmt.Errorf("feed at index %d is missing a URL", i)
		}
		if feed.Format != "" && feed.Format != FormatRSS && feed.Format != FormatJSON {
			return fmt.Errorf("feed at index %d has invalid format: %s", i, feed.Format)
		}
	}

	nonNegativeFields := map[string]int{
		"refresh interval": topicConfig.Settings.RefreshInterval,
		"max age days":     topicConfig.Settings.MaxAgeDays,
		"limit":            topicConfig.Settings.Limit,
		"timeout":          topicConfig.Settings.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if topicConfig.Settings.Limit > MaxLimit {
		topicConfig.Settings.Limit = MaxLimit
	}

	return nil
}

func (tc *TopicCache) getConfigFilePath(topicName string) string {
	return filepath.Join(tc.topicsDir, topicName+".yml")
}
