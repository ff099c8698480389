package news

import (
	"strings"
)

// Deduper removes items that resolve to the same dedup key, keeping the
// first occurrence in input order.
type Deduper struct{}

func NewDeduper() *Deduper {
	return &Deduper{}
}

func (d *Deduper) Run(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	deduped := make([]Item, 0, len(items))

	for _, item := range items {
		key := dedupKey(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, item)
	}

	return deduped
}

// dedupKey prefers the canonical URL; items without one fall back to the
// normalized title, prefixed so the two key spaces cannot collide.
func dedupKey(item Item) string {
	if item.URL != "" {
		return strings.ToLower(item.URL)
	}
	if title := strings.TrimSpace(item.Title); title != "" {
		return "t:" + strings.ToLower(title)
	}
	return ""
}
