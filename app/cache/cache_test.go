package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/sourcingdesk/newsdesk/app/news"
)

func testItems() []news.Item {
	published := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	return []news.Item{
		{Title: "Tariffs rise", URL: "https://x.com/a", PublishedAt: &published, Source: "x.com"},
	}
}

func TestCacheColdStartIsEmpty(t *testing.T) {
	c := New(NewMemoryStore(), time.Hour)

	if _, ok := c.Get("overseas"); ok {
		t.Error("Expected empty cache before any successful run")
	}
}

func TestCachePutThenGet(t *testing.T) {
	c := New(NewMemoryStore(), time.Hour)

	c.Put("overseas", testItems(), "digest text", "")

	entry, ok := c.Get("overseas")
	if !ok {
		t.Fatal("Expected entry after Put")
	}
	if entry.Stale {
		t.Error("Expected fresh entry immediately after Put")
	}
	if len(entry.Items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(entry.Items))
	}
	if entry.Digest != "digest text" {
		t.Errorf("Expected digest stored, got: %q", entry.Digest)
	}
}

func TestCacheStalenessBoundary(t *testing.T) {
	window := time.Hour
	c := New(NewMemoryStore(), window)

	generated := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return generated }
	c.Put("overseas", testItems(), "", "")

	// One second before the window elapses: fresh.
	c.now = func() time.Time { return generated.Add(window - time.Second) }
	entry, ok := c.Get("overseas")
	if !ok || entry.Stale {
		t.Errorf("Expected fresh entry at window-1s, got stale=%v", entry.Stale)
	}

	// One second after: stale, and due for refresh.
	c.now = func() time.Time { return generated.Add(window + time.Second) }
	entry, ok = c.Get("overseas")
	if !ok || !entry.Stale {
		t.Errorf("Expected stale entry at window+1s, got stale=%v", entry.Stale)
	}
	if !c.NeedsRefresh("overseas", 0) {
		t.Error("Expected stale entry to be due for refresh")
	}
}

func TestCacheNeedsRefreshPerTopicInterval(t *testing.T) {
	c := New(NewMemoryStore(), 22*time.Hour)

	generated := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return generated }
	c.Put("overseas", testItems(), "", "")

	c.now = func() time.Time { return generated.Add(30 * time.Minute) }

	// A topic refreshing hourly is not yet due; one refreshing every ten
	// minutes is. The window only applies when no interval is given.
	if c.NeedsRefresh("overseas", time.Hour) {
		t.Error("Expected hourly topic not due after 30 minutes")
	}
	if !c.NeedsRefresh("overseas", 10*time.Minute) {
		t.Error("Expected 10-minute topic due after 30 minutes")
	}
	if c.NeedsRefresh("overseas", 0) {
		t.Error("Expected window fallback not due after 30 minutes")
	}
	if !c.NeedsRefresh("korea", time.Hour) {
		t.Error("Expected unknown topic to always be due")
	}
}

func TestCacheReplacesWholeEntry(t *testing.T) {
	c := New(NewMemoryStore(), time.Hour)

	c.Put("overseas", testItems(), "old digest", "old note")
	second := []news.Item{
		{Title: "Cotton prices fall", URL: "https://x.com/b", Source: "x.com"},
		{Title: "Freight rates climb", URL: "https://x.com/c", Source: "x.com"},
	}
	c.Put("overseas", second, "", "")

	entry, _ := c.Get("overseas")
	if len(entry.Items) != 2 {
		t.Fatalf("Expected full replace, got %d items", len(entry.Items))
	}
	if entry.Digest != "" || entry.Note != "" {
		t.Error("Expected digest and note replaced, not merged")
	}
}

func TestCacheReturnsImmutableSnapshot(t *testing.T) {
	c := New(NewMemoryStore(), time.Hour)
	c.Put("overseas", testItems(), "", "")

	entry, _ := c.Get("overseas")
	entry.Items[0].Title = "mutated"
	entry.Note = "mutated"

	again, _ := c.Get("overseas")
	if again.Items[0].Title != "Tariffs rise" {
		t.Error("Expected cached items to be isolated from reader mutation")
	}
	if again.Note != "" {
		t.Error("Expected cached note to be isolated from reader mutation")
	}
}

func TestCacheSnapshotIsolatesPublishedAt(t *testing.T) {
	c := New(NewMemoryStore(), time.Hour)
	c.Put("overseas", testItems(), "", "")

	entry, _ := c.Get("overseas")
	// Writing through the pointer must not reach the cached interior.
	*entry.Items[0].PublishedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	again, _ := c.Get("overseas")
	want := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	if !again.Items[0].PublishedAt.Equal(want) {
		t.Errorf("Expected cached publish time untouched, got: %v", again.Items[0].PublishedAt)
	}
}

func TestCachePromotesPersistedEntryOnColdStart(t *testing.T) {
	store := NewMemoryStore()

	warm := New(store, time.Hour)
	warm.Put("overseas", testItems(), "digest", "")

	// A new Cache over the same store simulates a process restart.
	cold := New(store, time.Hour)
	entry, ok := cold.Get("overseas")
	if !ok {
		t.Fatal("Expected persisted entry to be promoted on cold start")
	}
	if len(entry.Items) != 1 || entry.Digest != "digest" {
		t.Errorf("Expected persisted entry contents, got: %+v", entry)
	}
}

type failingStore struct{}

func (failingStore) Load(topic string) (*Entry, error) { return nil, nil }
func (failingStore) Save(entry *Entry) error           { return errors.New("disk full") }
func (failingStore) Close() error                      { return nil }

func TestCachePersistenceFailureIsNonFatal(t *testing.T) {
	c := New(failingStore{}, time.Hour)

	entry := c.Put("overseas", testItems(), "", "")
	if entry == nil || len(entry.Items) != 1 {
		t.Fatal("Expected Put to succeed in memory despite persistence failure")
	}

	got, ok := c.Get("overseas")
	if !ok || len(got.Items) != 1 {
		t.Error("Expected in-memory entry to serve despite persistence failure")
	}
}
