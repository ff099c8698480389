package api

import (
	"github.com/sourcingdesk/newsdesk/app/cache"
	"github.com/sourcingdesk/newsdesk/app/news"
	"github.com/sourcingdesk/newsdesk/app/summary"
)

type Handler struct {
	topicCache *news.TopicCache
	freshCache *cache.Cache
	aggregator *news.Aggregator
	summarizer summary.Summarizer
}

// TopicResponse is the read endpoint payload. It is always delivered with
// HTTP 200: a display-only consumer never sees a 5xx, total failure is
// reported as ok=false with an error string.
type TopicResponse struct {
	OK        bool        `json:"ok"`
	Items     []news.Item `json:"items"`
	UpdatedAt string      `json:"updatedAt,omitempty"`
	Stale     bool        `json:"stale"`
	Note      string      `json:"note,omitempty"`
	Digest    string      `json:"digest,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// RefreshResponse is the refresh trigger payload.
type RefreshResponse struct {
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}
