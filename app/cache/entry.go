package cache

import (
	"time"

	"github.com/sourcingdesk/newsdesk/app/news"
)

// Entry is the unit of cache storage: the complete result of one successful
// aggregation run for a topic. It is always replaced whole, never patched.
// Unknown JSON fields are ignored on read, missing fields take zero values,
// so adding fields stays backward-readable.
type Entry struct {
	Topic       string      `json:"topic"`
	Items       []news.Item `json:"items"`
	Digest      string      `json:"digest,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Stale       bool        `json:"stale,omitempty"`
	Note        string      `json:"note,omitempty"`
}

// Clone returns a deep copy so readers can never mutate the cached state.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Items = make([]news.Item, len(e.Items))
	copy(clone.Items, e.Items)
	for i := range clone.Items {
		if clone.Items[i].PublishedAt != nil {
			t := *clone.Items[i].PublishedAt
			clone.Items[i].PublishedAt = &t
		}
	}
	return &clone
}
