package research

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/accountmesh/logging"
)

// Summary pairs a source identifier with its extracted text. Text may be
// empty when the source had no data or failed.
type Summary struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Result is the complete outcome of a research request.
//
// Invariants:
//   - HasConflict is true only when ExtractedYears has 2+ distinct members
//   - NoExternalData is true only when every summary is blank
//
// Both flags are independently computed and may both be true (synthetic
// fallback path) or both false.
type Result struct {
	EntityName     string    `json:"entity_name"`
	Summaries      []Summary `json:"source_summaries"`
	ExtractedYears []int     `json:"extracted_years"`
	HasConflict    bool      `json:"has_conflict"`
	NoExternalData bool      `json:"no_external_data"`
}

// syntheticConflicts maps known entity names (lower-cased) to fixed year
// lists. It exists purely to make the conflict-resolution conversational flow
// demonstrable when live sources are unavailable and must never override
// years obtained from a non-empty summary.
var syntheticConflicts = map[string][]int{
	"ibm":       {1896, 1911, 1924},
	"sony":      {1945, 1946, 1958},
	"nokia":     {1865, 1871, 1876},
	"panasonic": {1918, 1927, 1935},
	"accenture": {1950, 1989, 2001},
}

// Options configures an Aggregator.
type Options struct {
	// Sources queried per research request, in summary order.
	Sources []Source
	// SourceTimeout bounds each individual source query.
	SourceTimeout time.Duration
	// MaxParallel limits concurrent source queries. 0 or less means one
	// goroutine per source.
	MaxParallel int
	// Logger receives fail-soft source failures at warn level.
	Logger logging.Logger
}

// Aggregator queries the configured summary sources, merges their text and
// applies the founding-year conflict heuristic. It has no mutable state after
// construction and is safe for concurrent use; repeated calls are independent
// (no caching).
type Aggregator struct {
	sources       []Source
	sourceTimeout time.Duration
	maxParallel   int
	logger        logging.Logger
}

// NewAggregator constructs an Aggregator with optional overrides. With no
// sources configured, Research still returns a complete Result (empty
// summaries, fallback eligible).
func NewAggregator(optFns ...func(o *Options)) *Aggregator {
	opts := Options{
		SourceTimeout: 10 * time.Second,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Aggregator{
		sources:       opts.Sources,
		sourceTimeout: opts.SourceTimeout,
		maxParallel:   opts.MaxParallel,
		logger:        opts.Logger,
	}
}

// Research queries every configured source with entityName, merges the
// extracted years and computes the conflict flags. It never returns an error:
// source unavailability manifests only as empty summaries.
func (a *Aggregator) Research(ctx context.Context, entityName string) Result {
	summaries := a.fetchAll(ctx, entityName)

	yearSet := map[int]struct{}{}
	noExternal := true
	for _, s := range summaries {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		noExternal = false
		for _, y := range ExtractYears(s.Text) {
			yearSet[y] = struct{}{}
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	hasConflict := len(years) >= 2

	if noExternal {
		normalized := strings.ToLower(strings.TrimSpace(entityName))
		if fixed, ok := syntheticConflicts[normalized]; ok {
			years = append([]int(nil), fixed...)
			hasConflict = true
		}
	}

	return Result{
		EntityName:     entityName,
		Summaries:      summaries,
		ExtractedYears: years,
		HasConflict:    hasConflict,
		NoExternalData: noExternal,
	}
}

// fetchAll queries the sources concurrently, bounded by maxParallel, with a
// per-source timeout. The returned slice preserves source order; failures and
// panics are folded into empty summaries.
func (a *Aggregator) fetchAll(ctx context.Context, entityName string) []Summary {
	summaries := make([]Summary, len(a.sources))
	if len(a.sources) == 0 {
		return summaries
	}

	maxPar := a.maxParallel
	if maxPar <= 0 || maxPar > len(a.sources) {
		maxPar = len(a.sources)
	}
	sem := make(chan struct{}, maxPar)

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, src Source) {
			defer wg.Done()
			defer func() { <-sem }()

			summaries[idx] = Summary{Source: src.Name(), Text: a.fetchOne(ctx, src, entityName)}
		}(i, src)
	}
	wg.Wait()

	return summaries
}

// fetchOne runs a single source query and folds any failure into an empty
// string, logging it for observability.
func (a *Aggregator) fetchOne(ctx context.Context, src Source, entityName string) string {
	fetchCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
	defer cancel()

	var (
		text string
		err  error
	)
	func() { // panic safety: a misbehaving source must not abort the aggregation
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		text, err = src.FetchSummary(fetchCtx, entityName)
	}()

	if err != nil {
		ferr := &FetchError{Source: src.Name(), Err: err}
		a.logger.Warn("research.source.failed", "source", src.Name(), "entity", entityName, "error", ferr.Error())
		return ""
	}

	return text
}
