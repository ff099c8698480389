package tasks

import (
	"context"
	"log/slog"

	"github.com/sourcingdesk/newsdesk/app/cache"
	"github.com/sourcingdesk/newsdesk/app/news"
	"github.com/sourcingdesk/newsdesk/app/summary"
)

// RefreshTopicTask runs the aggregation pipeline for one topic and replaces
// its cache entry. A failed run returns an error and leaves the previous
// entry untouched, so it keeps serving (stale) until a run succeeds.
type RefreshTopicTask struct {
	Task
	TopicConfig *news.Config
	aggregator  *news.Aggregator
	summarizer  summary.Summarizer
	freshCache  *cache.Cache
}

func NewRefreshTopicTask(topicName string, topicConfig *news.Config, aggregator *news.Aggregator,
	summarizer summary.Summarizer, freshCache *cache.Cache) *RefreshTopicTask {
	return &RefreshTopicTask{
		Task:        NewTask(TaskTypeRefreshTopic, topicName),
		TopicConfig: topicConfig,
		aggregator:  aggregator,
		summarizer:  summarizer,
		freshCache:  freshCache,
	}
}

func (t *RefreshTopicTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.TopicConfig.Settings.Enabled {
		slog.Debug("Topic disabled, skipping", "topic", t.TopicName)
		return nil
	}

	items, stats, err := t.aggregator.Run(ctx, t.TopicConfig)
	if err != nil {
		return err
	}

	digest := summary.Digest(ctx, t.summarizer, items, t.TopicConfig.Settings.SummaryPrompt)

	t.freshCache.Put(t.TopicName, items, digest, stats.Note())

	slog.Info("Task completed",
		"type", "RefreshTopic",
		"topic", t.TopicName,
		"duration", t.GetDuration(),
		"feeds", stats.FeedsTotal,
		"failed", stats.FeedsFailed,
		"items", stats.ItemsKept)

	return nil
}
