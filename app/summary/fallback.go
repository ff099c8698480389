package summary

import (
	"fmt"
	"strings"

	"github.com/sourcingdesk/newsdesk/app/news"
)

const fallbackMaxBullets = 5

// Fallback builds a deterministic bullet-list digest directly from the
// items. It is the substitute whenever the summary service is unavailable.
func Fallback(items []news.Item) string {
	if len(items) == 0 {
		return ""
	}

	n := len(items)
	if n > fallbackMaxBullets {
		n = fallbackMaxBullets
	}

	var b strings.Builder
	for _, item := range items[:n] {
		if item.Source != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", item.Title, item.Source)
		} else {
			fmt.Fprintf(&b, "- %s\n", item.Title)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
