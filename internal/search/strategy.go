package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrison/bytegrep/internal/models"
	"golang.org/x/sync/errgroup"
)

// Scheduling mode names accepted by StrategyForMode
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// ScanFunc scans one path and returns its outcome
type ScanFunc func(ctx context.Context, path string) models.FileOutcome

// Strategy decides how scans are scheduled.
// Dispatch runs scan once per path and hands every outcome to collect on the
// calling goroutine. It returns only after every scan has completed.
type Strategy interface {
	Name() string
	Dispatch(ctx context.Context, paths []string, scan ScanFunc, collect func(models.FileOutcome))
}

// Sequential scans files one at a time, in input order
type Sequential struct{}

// NewSequential creates a Sequential strategy
func NewSequential() *Sequential {
	return &Sequential{}
}

// Name returns "sequential"
func (s *Sequential) Name() string {
	return ModeSequential
}

// Dispatch scans every path on the calling goroutine
func (s *Sequential) Dispatch(ctx context.Context, paths []string, scan ScanFunc, collect func(models.FileOutcome)) {
	for _, path := range paths {
		collect(scan(ctx, path))
	}
}

// Parallel runs one goroutine per file.
// MaxConcurrency bounds the number of in-flight scans (0 = unlimited).
type Parallel struct {
	MaxConcurrency int
}

// NewParallel creates a Parallel strategy
func NewParallel(maxConcurrency int) *Parallel {
	return &Parallel{MaxConcurrency: maxConcurrency}
}

// Name returns "parallel"
func (p *Parallel) Name() string {
	return ModeParallel
}

// Dispatch spawns the scans and joins their outcomes through a channel.
func (p *Parallel) Dispatch(ctx context.Context, paths []string, scan ScanFunc, collect func(models.FileOutcome)) {
	if len(paths) == 0 {
		return
	}

	var g errgroup.Group
	if p.MaxConcurrency > 0 {
		g.SetLimit(p.MaxConcurrency)
	}

	resultsCh := make(chan models.FileOutcome, len(paths))

	// The feeder blocks in g.Go once the limit is reached, so it runs apart
	// from the collector below.
	go func() {
		for _, path := range paths {
			path := path
			g.Go(func() error {
				resultsCh <- scan(ctx, path)
				return nil
			})
		}
		_ = g.Wait()
		close(resultsCh)
	}()

	for outcome := range resultsCh {
		collect(outcome)
	}
}

// StrategyForMode returns the strategy named by mode.
// An empty mode selects parallel dispatch.
func StrategyForMode(mode string, maxConcurrency int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeSequential:
		return NewSequential(), nil
	case ModeParallel, "":
		if maxConcurrency < 0 {
			return nil, fmt.Errorf("max concurrency must be >= 0, got %d", maxConcurrency)
		}
		return NewParallel(maxConcurrency), nil
	default:
		return nil, fmt.Errorf("unknown scan mode %q, must be one of: %s, %s", mode, ModeSequential, ModeParallel)
	}
}
