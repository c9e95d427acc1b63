package research

import (
	"context"
	"fmt"
)

// Source is the capability consumed by the Aggregator: a provider of a short
// free-text description for an entity. Implementations must be safe for
// concurrent use and should honor context cancellation; they may return an
// error freely since the aggregation boundary folds every failure into an
// empty contribution.
type Source interface {
	// Name returns the source identifier used as the summary key
	// (e.g. "wikipedia", "duckduckgo").
	Name() string

	// FetchSummary returns a short summary text for the query, or an error.
	// An empty string with a nil error is a valid "no data" answer.
	FetchSummary(ctx context.Context, query string) (string, error)
}

// FetchError wraps a source failure with its origin. It is logged at the
// aggregation boundary and then folded into an empty summary, keeping the
// failure visible internally without ever surfacing to callers.
type FetchError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: fetch failed: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// SourceFunc adapts an ordinary function into a Source.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, query string) (string, error)
}

// Name implements Source.
func (s SourceFunc) Name() string { return s.SourceName }

// FetchSummary implements Source.
func (s SourceFunc) FetchSummary(ctx context.Context, query string) (string, error) {
	return s.Fn(ctx, query)
}
