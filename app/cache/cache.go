package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sourcingdesk/newsdesk/app/news"
)

// Cache is the freshness cache: it owns all Entry storage and is the only
// writer. Entries move empty -> fresh on the first successful run, fresh ->
// stale when the window elapses, and stale -> fresh on the next successful
// run. A failed refresh leaves the previous entry in place; it is served
// stale indefinitely, which is accepted degradation.
type Cache struct {
	store  Store
	window time.Duration

	mu      sync.RWMutex
	entries map[string]*Entry

	now func() time.Time
}

func New(store Store, window time.Duration) *Cache {
	return &Cache{
		store:   store,
		window:  window,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get returns an immutable snapshot of the topic's entry, with Stale set
// when the freshness window has elapsed. The second return is false only
// when no successful run has ever been recorded for the topic. On a cold
// start the persisted document, if any, is promoted into memory.
func (c *Cache) Get(topic string) (*Entry, bool) {
	c.mu.RLock()
	entry := c.entries[topic]
	c.mu.RUnlock()

	if entry == nil {
		loaded, err := c.store.Load(topic)
		if err != nil {
			slog.Error("Cache load failed", "topic", topic, "error", err)
			return nil, false
		}
		if loaded == nil {
			return nil, false
		}

		c.mu.Lock()
		// Another request may have raced the load; keep whichever is in place.
		if existing := c.entries[topic]; existing != nil {
			loaded = existing
		} else {
			c.entries[topic] = loaded
		}
		c.mu.Unlock()
		entry = loaded
	}

	snapshot := entry.Clone()
	snapshot.Stale = c.isStale(snapshot.GeneratedAt)
	return snapshot, true
}

// Put records a successful aggregation run: atomic full replace of the
// topic's entry, GeneratedAt set to now. Persistence failures are logged
// and non-fatal; the in-memory entry still serves this process.
func (c *Cache) Put(topic string, items []news.Item, digest, note string) *Entry {
	entry := &Entry{
		Topic:       topic,
		Items:       items,
		Digest:      digest,
		Note:        note,
		GeneratedAt: c.now(),
	}

	c.mu.Lock()
	c.entries[topic] = entry
	c.mu.Unlock()

	if err := c.store.Save(entry.Clone()); err != nil {
		slog.Error("Cache persistence failed, entry kept in memory only",
			"topic", topic, "error", err)
	}

	return entry.Clone()
}

// NeedsRefresh reports whether a topic has no entry yet or its entry is
// older than the topic's refresh interval. A non-positive interval falls
// back to the freshness window, so serving staleness and refresh cadence
// stay independent knobs.
func (c *Cache) NeedsRefresh(topic string, interval time.Duration) bool {
	if interval <= 0 {
		interval = c.window
	}

	entry, ok := c.Get(topic)
	if !ok {
		return true
	}
	return c.now().After(entry.GeneratedAt.Add(interval))
}

// Topics returns the topics currently held in memory.
func (c *Cache) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics := make([]string, 0, len(c.entries))
	for topic := range c.entries {
		topics = append(topics, topic)
	}
	return topics
}

func (c *Cache) isStale(generatedAt time.Time) bool {
	return c.now().After(generatedAt.Add(c.window))
}
