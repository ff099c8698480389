package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sourcingdesk/newsdesk/app/cache"
	"github.com/sourcingdesk/newsdesk/app/news"
	"github.com/sourcingdesk/newsdesk/app/summary"
)

func NewHandler(topicCache *news.TopicCache, freshCache *cache.Cache,
	aggregator *news.Aggregator, summarizer summary.Summarizer) *Handler {
	return &Handler{
		topicCache: topicCache,
		freshCache: freshCache,
		aggregator: aggregator,
		summarizer: summarizer,
	}
}

// GetTopic serves a topic's aggregation result, cache first. A fresh entry
// is returned as-is; on a miss or stale entry the pipeline runs inline, and
// when that fails the stale entry still serves. Only a total failure with
// no cache at all reports ok=false.
func (h *Handler) GetTopic(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	topicConfig, err := h.topicCache.GetConfig(name)
	if err != nil {
		slog.Error("Topic configuration not found", "topic", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	entry, ok := h.freshCache.Get(name)
	if ok && !entry.Stale {
		c.JSON(http.StatusOK, entryResponse(entry))
		return
	}

	refreshed, refreshErr := h.refreshTopic(c.Request.Context(), topicConfig)
	if refreshErr == nil {
		c.JSON(http.StatusOK, entryResponse(refreshed))
		return
	}

	if ok {
		// Stale serve: the refresh failed but yesterday's result beats none.
		resp := entryResponse(entry)
		resp.Note = "refresh failed, serving last cached result"
		c.JSON(http.StatusOK, resp)
		return
	}

	slog.Error("Topic aggregation failed with no cache available", "topic", name, "error", refreshErr)
	c.JSON(http.StatusOK, TopicResponse{
		OK:    false,
		Items: []news.Item{},
		Error: "no data available: " + refreshErr.Error(),
	})
}

// RefreshTopic forces a pipeline run regardless of cache freshness and
// persists the result.
func (h *Handler) RefreshTopic(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing topic name parameter"})
		return
	}

	topicConfig, err := h.topicCache.GetConfig(name)
	if err != nil {
		slog.Error("Topic configuration not found", "topic", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	entry, refreshErr := h.refreshTopic(c.Request.Context(), topicConfig)
	if refreshErr != nil {
		slog.Error("Forced refresh failed", "topic", name, "error", refreshErr)
		c.JSON(http.StatusOK, RefreshResponse{OK: false, Count: 0, Error: refreshErr.Error()})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{OK: true, Count: len(entry.Items)})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"topics":    h.topicCache.GetConfigCount(),
		"cached":    len(h.freshCache.Topics()),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListTopics(c *gin.Context) {
	configs := h.topicCache.GetConfigs()

	topics := make([]map[string]interface{}, 0, len(configs))
	for _, topicConfig := range configs {
		topicInfo := map[string]interface{}{
			"name":         topicConfig.Name,
			"enabled":      topicConfig.Settings.Enabled,
			"feeds":        len(topicConfig.Feeds),
			"max_age_days": topicConfig.Settings.MaxAgeDays,
			"limit":        topicConfig.Settings.Limit,
		}

		if entry, ok := h.freshCache.Get(topicConfig.Name); ok {
			topicInfo["generated_at"] = entry.GeneratedAt
			topicInfo["stale"] = entry.Stale
			topicInfo["item_count"] = len(entry.Items)
		}

		topics = append(topics, topicInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"topics": topics,
		"total":  len(topics),
	})
}

// refreshTopic runs the pipeline inline and replaces the topic's cache
// entry on success.
func (h *Handler) refreshTopic(ctx context.Context, topicConfig *news.Config) (*cache.Entry, error) {
	items, stats, err := h.aggregator.Run(ctx, topicConfig)
	if err != nil {
		return nil, err
	}

	digest := summary.Digest(ctx, h.summarizer, items, topicConfig.Settings.SummaryPrompt)

	return h.freshCache.Put(topicConfig.Name, items, digest, stats.Note()), nil
}

func entryResponse(entry *cache.Entry) TopicResponse {
	return TopicResponse{
		OK:        true,
		Items:     entry.Items,
		UpdatedAt: entry.GeneratedAt.Format(time.RFC3339),
		Stale:     entry.Stale,
		Note:      entry.Note,
		Digest:    entry.Digest,
	}
}
