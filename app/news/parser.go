package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// Parser converts raw RSS/Atom or JSON payloads into RawItems. Parsing is
// deterministic: the same payload always yields the same sequence. Items
// missing both title and link are dropped; a single bad item never fails
// the batch.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte, format Format) ([]RawItem, error) {
	switch format {
	case FormatRSS:
		return p.parseFeed(data)
	case FormatJSON:
		return p.parseJSON(data)
	default:
		return nil, &ParseError{Format: format, Err: fmt.Errorf("unknown format %q", format)}
	}
}

func (p *Parser) parseFeed(data []byte) ([]RawItem, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: FormatRSS, Err: err}
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || (item.Title == "" && item.Link == "") {
			continue
		}

		raw := RawItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
		}
		if raw.Description == "" {
			raw.Description = item.Content
		}

		if item.PublishedParsed != nil {
			raw.Published = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			raw.Published = item.UpdatedParsed
		}

		items = append(items, raw)
	}

	return items, nil
}

// Provider key sets seen across JSON news APIs. The first present key wins.
var (
	jsonListKeys   = []string{"articles", "items", "results", "data"}
	jsonTitleKeys  = []string{"title", "headline", "name"}
	jsonLinkKeys   = []string{"url", "link", "webUrl"}
	jsonDateKeys   = []string{"publishedAt", "published_at", "pubDate", "published", "date", "updatedAt"}
	jsonDescKeys   = []string{"description", "summary", "abstract", "content"}
	jsonSourceKeys = []string{"source", "source_name", "provider"}
)

func (p *Parser) parseJSON(data []byte) ([]RawItem, error) {
	var top interface{}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}

	var list []interface{}
	switch v := top.(type) {
	case []interface{}:
		list = v
	case map[string]interface{}:
		for _, key := range jsonListKeys {
			if l, ok := v[key].([]interface{}); ok {
				list = l
				break
			}
		}
		if list == nil {
			return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("no item list found (tried %v)", jsonListKeys)}
		}
	default:
		return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("unexpected top-level type %T", top)}
	}

	items := make([]RawItem, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}

		raw := RawItem{
			Title:       firstString(obj, jsonTitleKeys),
			Link:        firstString(obj, jsonLinkKeys),
			Description: firstString(obj, jsonDescKeys),
			Source:      sourceString(obj),
		}
		if raw.Title == "" && raw.Link == "" {
			continue
		}

		if dateStr := firstString(obj, jsonDateKeys); dateStr != "" {
			if t, err := dateparse.ParseAny(dateStr); err == nil {
				t = t.UTC()
				raw.Published = &t
			}
		}

		items = append(items, raw)
	}

	return items, nil
}

func firstString(obj map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// sourceString handles both NewsAPI-style {"source": {"name": "X"}} and
// plain string source fields.
func sourceString(obj map[string]interface{}) string {
	for _, key := range jsonSourceKeys {
		switch v := obj[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case map[string]interface{}:
			if name, ok := v["name"].(string); ok && strings.TrimSpace(name) != "" {
				return name
			}
		}
	}
	return ""
}
