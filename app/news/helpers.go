package news

import (
	"time"
)

// GetRefreshInterval returns the topic's refresh cadence as time.Duration
func (s *ConfigSettings) GetRefreshInterval() time.Duration {
	if s.RefreshInterval <= 0 {
		return 3600 * time.Second // default 1 hour
	}
	return time.Duration(s.RefreshInterval) * time.Second
}

// GetTimeout returns the per-feed fetch timeout as time.Duration
func (s *ConfigSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 8 * time.Second // default 8 seconds
	}
	return time.Duration(s.Timeout) * time.Second
}
