package news

import (
	"sort"
	"time"
)

const (
	DefaultLimit = 40
	MaxLimit     = 120

	DefaultMaxAgeDays = 7
)

// Filterer applies the recency window, sorts newest-first, and truncates to
// the item limit.
type Filterer struct {
	now func() time.Time
}

func NewFilterer() *Filterer {
	return &Filterer{now: time.Now}
}

// Run keeps items published within maxAgeDays of now. Undated items are kept:
// the age filter never discards them, the sort places them after every dated
// item instead. Sorting is stable and descending by publish time.
func (f *Filterer) Run(items []Item, maxAgeDays, limit int) []Item {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	cutoff := f.now().AddDate(0, 0, -maxAgeDays)

	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.PublishedAt == nil || !item.PublishedAt.Before(cutoff) {
			kept = append(kept, item)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return pubTime(kept[i]).After(pubTime(kept[j]))
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	return kept
}

// pubTime maps a missing timestamp to the zero time so undated items order
// as oldest.
func pubTime(item Item) time.Time {
	if item.PublishedAt == nil {
		return time.Time{}
	}
	return *item.PublishedAt
}
