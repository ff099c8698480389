package news

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunStats reports per-run diagnostics for logging and cache notes.
type RunStats struct {
	FeedsTotal  int
	FeedsFailed int
	ItemsKept   int
}

// Note renders a diagnostic string for degraded runs, empty when every
// feed succeeded.
func (s RunStats) Note() string {
	if s.FeedsFailed == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d feeds failed", s.FeedsFailed, s.FeedsTotal)
}

// Aggregator runs the full pipeline for one topic: concurrent fetch of all
// feeds, per-feed parse and normalize, merge, dedupe, recency filter, sort,
// limit.
type Aggregator struct {
	fetcher    *Fetcher
	parser     *Parser
	normalizer *Normalizer
	deduper    *Deduper
	filterer   *Filterer
}

func NewAggregator(fetcher *Fetcher) *Aggregator {
	return &Aggregator{
		fetcher:    fetcher,
		parser:     NewParser(),
		normalizer: NewNormalizer(),
		deduper:    NewDeduper(),
		filterer:   NewFilterer(),
	}
}

// Run fans out one goroutine per feed. Each fetch carries its own timeout;
// a slow or failing feed neither blocks nor cancels its siblings. Partial
// success is success: at least one feed returning items makes the run
// succeed. Returns ErrNoItems when every feed failed or came back empty.
func (a *Aggregator) Run(ctx context.Context, topic *Config) ([]Item, RunStats, error) {
	stats := RunStats{FeedsTotal: len(topic.Feeds)}

	perFeed := make([][]Item, len(topic.Feeds))
	failed := make([]bool, len(topic.Feeds))

	var wg sync.WaitGroup
	for i, feed := range topic.Feeds {
		wg.Add(1)
		go func(i int, feed ConfigFeed) {
			defer wg.Done()

			items, err := a.runFeed(ctx, topic, feed)
			if err != nil {
				slog.Warn("Feed failed, continuing with remaining feeds",
					"topic", topic.Name, "url", feed.URL, "error", err)
				failed[i] = true
				return
			}
			perFeed[i] = items
		}(i, feed)
	}
	wg.Wait()

	merged := make([]Item, 0)
	for i := range perFeed {
		if failed[i] {
			stats.FeedsFailed++
			continue
		}
		merged = append(merged, perFeed[i]...)
	}

	if len(merged) == 0 {
		return nil, stats, ErrNoItems
	}

	deduped := a.deduper.Run(merged)
	result := a.filterer.Run(deduped, topic.Settings.MaxAgeDays, topic.Settings.Limit)
	stats.ItemsKept = len(result)

	slog.Info("Aggregation run completed",
		"topic", topic.Name,
		"feeds", stats.FeedsTotal,
		"failed", stats.FeedsFailed,
		"merged", len(merged),
		"deduped", len(deduped),
		"kept", stats.ItemsKept)

	return result, stats, nil
}

func (a *Aggregator) runFeed(ctx context.Context, topic *Config, feed ConfigFeed) ([]Item, error) {
	data, err := a.fetcher.Run(ctx, feed.URL, topic.Settings.GetTimeout())
	if err != nil {
		return nil, err
	}

	format := feed.Format
	if format == "" {
		format = FormatRSS
	}

	rawItems, err := a.parser.Run(data, format)
	if err != nil {
		return nil, err
	}

	items := a.normalizer.Run(rawItems, feed.Source)
	slog.Debug("Feed processed", "topic", topic.Name, "url", feed.URL, "items", len(items))

	return items, nil
}
