package news

import (
	"errors"
	"fmt"
)

// ErrNoItems signals an aggregation run where every feed failed or returned
// zero items. Callers fall back to the last cached entry.
var ErrNoItems = errors.New("no items aggregated")

const ReasonBadContentType = "bad-content-type"

// FetchError reports an upstream feed that could not be retrieved after all
// attempts were exhausted.
type FetchError struct {
	URL      string
	Attempts int
	Reason   string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("fetch %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a payload that could not yield any items in the declared
// format. The aggregation run treats the feed as empty and continues.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
