package news

import (
	"html"
	"net/url"
	"strings"
)

// Hosts known to wrap the real article URL in a `url=` query parameter.
var redirectorHosts = map[string]bool{
	"news.google.com":     true,
	"www.google.com":      true,
	"news.url.google.com": true,
}

// Query parameters that only carry click tracking.
var trackingParams = map[string]bool{
	"utm":     true,
	"fbclid":  true,
	"gclid":   true,
	"igshid":  true,
	"cmpid":   true,
	"ref_src": true,
}

// Normalizer maps provider-shaped RawItems onto canonical Items: entity
// decoding, markup stripping, URL canonicalization, and source derivation.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run normalizes the batch. sourceLabel is the topic configuration's label
// for the feed; an explicit provider source field wins over it, and the URL
// host is the last resort. Items with neither usable title nor URL are
// dropped: they cannot be deduplicated or displayed.
func (n *Normalizer) Run(rawItems []RawItem, sourceLabel string) []Item {
	items := make([]Item, 0, len(rawItems))

	for _, raw := range rawItems {
		item := Item{
			Title:       cleanText(raw.Title),
			URL:         canonicalizeURL(strings.TrimSpace(raw.Link)),
			PublishedAt: raw.Published,
			Description: cleanText(raw.Description),
		}

		if item.Title == "" && item.URL == "" {
			continue
		}

		item.Source = deriveSource(raw.Source, sourceLabel, item.URL)

		items = append(items, item)
	}

	return items
}

// cleanText decodes HTML entities, strips any residual markup, and collapses
// whitespace runs into single spaces.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = stripHTML(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalizeURL unwraps recognized aggregator redirectors and strips
// tracking query parameters. Unparseable URLs pass through untouched.
func canonicalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	if redirectorHosts[strings.ToLower(u.Host)] {
		if target := u.Query().Get("url"); target != "" {
			if tu, err := url.Parse(target); err == nil && tu.Host != "" {
				u = tu
			}
		}
	}

	query := u.Query()
	changed := false
	for key := range query {
		if trackingParams[strings.ToLower(key)] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}

	return u.String()
}

func deriveSource(providerSource, sourceLabel, itemURL string) string {
	if s := strings.TrimSpace(providerSource); s != "" {
		return s
	}
	if sourceLabel != "" {
		return sourceLabel
	}
	if u, err := url.Parse(itemURL); err == nil && u.Host != "" {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	return ""
}
