package dataaccess

import "fmt"

// FetchError wraps any failure during fetch, join or normalization with
// the ticker it occurred for. The facade never masks these: the caller is
// the only place with enough context to abort, retry or degrade.
type FetchError struct {
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching data for %s: %v", e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
