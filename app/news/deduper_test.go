package news

import (
	"testing"
)

func TestDedupeByURL(t *testing.T) {
	deduper := NewDeduper()

	items := []Item{
		{Title: "First", URL: "https://example.com/a"},
		{Title: "Duplicate by URL", URL: "https://EXAMPLE.com/a"},
		{Title: "Second", URL: "https://example.com/b"},
	}

	result := deduper.Run(items)

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(result))
	}
	if result[0].Title != "First" {
		t.Errorf("Expected first occurrence retained, got: %s", result[0].Title)
	}
	if result[1].Title != "Second" {
		t.Errorf("Expected input order preserved, got: %s", result[1].Title)
	}
}

func TestDedupeByTitleWhenNoURL(t *testing.T) {
	deduper := NewDeduper()

	items := []Item{
		{Title: "Cotton Prices Fall"},
		{Title: "  cotton prices fall  "},
		{Title: "Freight rates climb"},
	}

	result := deduper.Run(items)

	if len(result) != 2 {
		t.Fatalf("Expected title-keyed dedup to drop the duplicate, got: %d items", len(result))
	}
	if result[0].Title != "Cotton Prices Fall" {
		t.Errorf("Expected first occurrence retained, got: %s", result[0].Title)
	}
}

func TestDedupeKeySpacesDoNotCollide(t *testing.T) {
	deduper := NewDeduper()

	// A URL-less item whose title equals another item's URL must not collide.
	items := []Item{
		{Title: "something", URL: "https://example.com/a"},
		{Title: "https://example.com/a"},
	}

	result := deduper.Run(items)

	if len(result) != 2 {
		t.Errorf("Expected 2 items, URL and title key spaces must be distinct, got: %d", len(result))
	}
}

func TestDedupeStability(t *testing.T) {
	deduper := NewDeduper()

	items := []Item{
		{Title: "A", URL: "https://example.com/1"},
		{Title: "B", URL: "https://example.com/2"},
		{Title: "A again", URL: "https://example.com/1"},
		{Title: "C", URL: "https://example.com/3"},
	}

	result := deduper.Run(items)

	expected := []string{"A", "B", "C"}
	if len(result) != len(expected) {
		t.Fatalf("Expected %d items, got: %d", len(expected), len(result))
	}
	for i, title := range expected {
		if result[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, result[i].Title)
		}
	}
}
