package search

import (
	"context"
	"sync"
	"time"

	"github.com/harrison/bytegrep/internal/models"
)

// BatchResult is everything one ScanAll run produced
type BatchResult struct {
	Matches  *models.MatchSet
	Summary  models.ScanSummary
	Failures []error // Per-file errors, in completion order
}

// Orchestrator applies a Scanner to many files under a scheduling Strategy
type Orchestrator struct {
	scanner  Scanner
	strategy Strategy
	observer Observer
	strict   bool

	mu   sync.Mutex
	last models.ScanSummary
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithStrategy sets the scheduling strategy (default: unbounded Parallel)
func WithStrategy(s Strategy) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithObserver sets the progress observer
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithStrictErrors makes Run and ScanAll return a *BatchError when any file
// failed. Scanning of the remaining files is never cut short.
func WithStrictErrors(strict bool) Option {
	return func(o *Orchestrator) {
		o.strict = strict
	}
}

// NewOrchestrator creates an Orchestrator around scanner
func NewOrchestrator(scanner Scanner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scanner:  scanner,
		strategy: NewParallel(0),
		observer: NoOpObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Strategy returns the configured scheduling strategy
func (o *Orchestrator) Strategy() Strategy {
	return o.strategy
}

// Stats returns the summary of the most recent Run or ScanAll call
func (o *Orchestrator) Stats() models.ScanSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// ScanAll scans every path for pattern and returns the paths that matched.
func (o *Orchestrator) ScanAll(ctx context.Context, paths []string, pattern *models.Pattern) (*models.MatchSet, error) {
	result, err := o.Run(ctx, paths, pattern)
	if result == nil {
		return nil, err
	}
	return result.Matches, err
}

// Run scans every path for pattern and returns the matches together with the
// batch summary and per-file failures. It returns only after every dispatched
// scan has completed. In strict mode a non-nil *BatchError accompanies a
// complete result.
func (o *Orchestrator) Run(ctx context.Context, paths []string, pattern *models.Pattern) (*BatchResult, error) {
	start := time.Now()
	o.observer.OnScanStart(len(paths), pattern, o.strategy.Name())

	result := &BatchResult{
		Matches: models.NewMatchSet(),
	}

	scan := func(ctx context.Context, path string) models.FileOutcome {
		fileStart := time.Now()
		matched, err := o.scanner.Scan(ctx, path, pattern)
		return models.FileOutcome{
			Path:    path,
			Matched: matched && err == nil,
			Err:     err,
			Elapsed: time.Since(fileStart),
		}
	}

	o.strategy.Dispatch(ctx, paths, scan, func(outcome models.FileOutcome) {
		result.Summary.Files++
		switch {
		case outcome.Failed():
			result.Summary.Failed++
			result.Failures = append(result.Failures, outcome.Err)
		case outcome.Matched:
			result.Matches.Add(outcome.Path)
		}
		o.observer.OnFileScanned(outcome)
	})

	result.Summary.Matched = result.Matches.Len()
	result.Summary.Duration = time.Since(start)
	o.mu.Lock()
	o.last = result.Summary
	o.mu.Unlock()
	o.observer.OnScanComplete(result.Summary)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if o.strict && len(result.Failures) > 0 {
		return result, &BatchError{Failures: result.Failures, TotalFiles: len(paths)}
	}
	return result, nil
}
