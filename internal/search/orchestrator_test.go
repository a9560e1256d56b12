package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/harrison/bytegrep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScanner answers from a fixed table and can fail selected paths.
type stubScanner struct {
	matches map[string]bool
	fail    map[string]error
	delay   time.Duration

	inFlight    int32
	maxInFlight int32
	calls       int32
}

func (s *stubScanner) Scan(ctx context.Context, path string, pattern *models.Pattern) (bool, error) {
	atomic.AddInt32(&s.calls, 1)
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		cur := atomic.LoadInt32(&s.maxInFlight)
		if n <= cur || atomic.CompareAndSwapInt32(&s.maxInFlight, cur, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if err, ok := s.fail[path]; ok {
		return false, &FileError{Path: path, Op: "read", Err: err}
	}
	return s.matches[path], nil
}

// recordingObserver remembers every event it receives
type recordingObserver struct {
	mu       sync.Mutex
	started  int
	strategy string
	outcomes []models.FileOutcome
	summary  models.ScanSummary
}

func (r *recordingObserver) OnScanStart(total int, _ *models.Pattern, strategy string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = total
	r.strategy = strategy
}

func (r *recordingObserver) OnFileScanned(outcome models.FileOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingObserver) OnScanComplete(summary models.ScanSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = summary
}

func buildCorpus(t *testing.T, n int) ([]string, *ChunkedScanner, *models.MatchSet) {
	t.Helper()
	fs := memfs.New()
	want := models.NewMatchSet()
	var paths []string
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/corpus/dir%d/file%03d.txt", i%4, i)
		content := filler(1000 + i*37)
		if i%3 == 0 {
			content = append(content, []byte("abcd")...)
			want.Add(path)
		}
		writeFile(t, fs, path, content)
		paths = append(paths, path)
	}
	return paths, NewChunkedScanner(fs, WithMinBufferSize(64)), want
}

func TestOrchestrator_StrategiesAgree(t *testing.T) {
	paths, scanner, want := buildCorpus(t, 50)
	pattern := mustPattern(t, "abcd")

	strategies := []Strategy{
		NewSequential(),
		NewParallel(0),
		NewParallel(1),
		NewParallel(4),
	}

	for _, strategy := range strategies {
		t.Run(fmt.Sprintf("%s-%T", strategy.Name(), strategy), func(t *testing.T) {
			orch := NewOrchestrator(scanner, WithStrategy(strategy))
			got, err := orch.ScanAll(context.Background(), paths, pattern)
			require.NoError(t, err)
			assert.Equal(t, want.Paths(), got.Paths())
		})
	}
}

func TestOrchestrator_Idempotent(t *testing.T) {
	paths, scanner, _ := buildCorpus(t, 20)
	pattern := mustPattern(t, "abcd")
	orch := NewOrchestrator(scanner)

	first, err := orch.ScanAll(context.Background(), paths, pattern)
	require.NoError(t, err)
	second, err := orch.ScanAll(context.Background(), paths, pattern)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestOrchestrator_EmptyInput(t *testing.T) {
	for _, strategy := range []Strategy{NewSequential(), NewParallel(0)} {
		orch := NewOrchestrator(&stubScanner{}, WithStrategy(strategy))
		result, err := orch.Run(context.Background(), nil, mustPattern(t, "x"))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Matches.Len())
		assert.Equal(t, 0, result.Summary.Files)
	}
}

func TestOrchestrator_FileErrorsAreContained(t *testing.T) {
	boom := errors.New("permission denied")
	scanner := &stubScanner{
		matches: map[string]bool{"a": true, "b": false, "c": true},
		fail:    map[string]error{"c": boom},
	}
	obs := &recordingObserver{}
	orch := NewOrchestrator(scanner, WithStrategy(NewParallel(2)), WithObserver(obs))

	result, err := orch.Run(context.Background(), []string{"a", "b", "c"}, mustPattern(t, "x"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, result.Matches.Paths())
	assert.Equal(t, 3, result.Summary.Files)
	assert.Equal(t, 1, result.Summary.Matched)
	assert.Equal(t, 1, result.Summary.Failed)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0], boom)

	assert.Equal(t, 3, obs.started)
	assert.Equal(t, ModeParallel, obs.strategy)
	assert.Len(t, obs.outcomes, 3)
	assert.Equal(t, result.Summary.Failed, obs.summary.Failed)
	assert.Equal(t, result.Summary, orch.Stats())
}

func TestOrchestrator_StrictReturnsBatchError(t *testing.T) {
	boom := errors.New("io error")
	scanner := &stubScanner{
		matches: map[string]bool{"a": true},
		fail:    map[string]error{"b": boom, "c": boom},
	}
	orch := NewOrchestrator(scanner, WithStrategy(NewSequential()), WithStrictErrors(true))

	matches, err := orch.ScanAll(context.Background(), []string{"a", "b", "c", "d"}, mustPattern(t, "x"))
	require.Error(t, err)

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr), "expected *BatchError, got %T", err)
	assert.Equal(t, 4, batchErr.TotalFiles)
	assert.Len(t, batchErr.Failures, 2)
	assert.Contains(t, err.Error(), "2 of 4 files failed to scan")

	var fileErr *FileError
	assert.True(t, errors.As(err, &fileErr))
	assert.ErrorIs(t, err, boom)

	// Every file was still scanned and the matches are intact.
	assert.Equal(t, int32(4), atomic.LoadInt32(&scanner.calls))
	require.NotNil(t, matches)
	assert.Equal(t, []string{"a"}, matches.Paths())
}

func TestOrchestrator_ParallelBound(t *testing.T) {
	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, fmt.Sprintf("f%d", i))
	}
	scanner := &stubScanner{delay: 5 * time.Millisecond}
	orch := NewOrchestrator(scanner, WithStrategy(NewParallel(3)))

	_, err := orch.ScanAll(context.Background(), paths, mustPattern(t, "x"))
	require.NoError(t, err)

	assert.Equal(t, int32(20), atomic.LoadInt32(&scanner.calls))
	assert.LessOrEqual(t, atomic.LoadInt32(&scanner.maxInFlight), int32(3))
}

func TestOrchestrator_SequentialPreservesOrder(t *testing.T) {
	obs := &recordingObserver{}
	orch := NewOrchestrator(&stubScanner{}, WithStrategy(NewSequential()), WithObserver(obs))

	paths := []string{"z", "a", "m"}
	_, err := orch.ScanAll(context.Background(), paths, mustPattern(t, "x"))
	require.NoError(t, err)

	require.Len(t, obs.outcomes, 3)
	for i, p := range paths {
		assert.Equal(t, p, obs.outcomes[i].Path)
	}
	assert.Equal(t, ModeSequential, obs.strategy)
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	paths, scanner, _ := buildCorpus(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOrchestrator(scanner).ScanAll(ctx, paths, mustPattern(t, "abcd"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrategyForMode(t *testing.T) {
	tests := []struct {
		mode     string
		maxConc  int
		wantName string
		wantErr  bool
	}{
		{mode: "sequential", wantName: ModeSequential},
		{mode: "parallel", maxConc: 8, wantName: ModeParallel},
		{mode: "", wantName: ModeParallel},
		{mode: " Parallel ", wantName: ModeParallel},
		{mode: "parallel", maxConc: -1, wantErr: true},
		{mode: "threaded", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			s, err := StrategyForMode(tt.mode, tt.maxConc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
			if p, ok := s.(*Parallel); ok {
				assert.Equal(t, tt.maxConc, p.MaxConcurrency)
			}
		})
	}
}

func TestMultiObserver(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	multi := MultiObserver{a, b, NoOpObserver{}}

	multi.OnScanStart(2, mustPattern(t, "x"), ModeSequential)
	multi.OnFileScanned(models.FileOutcome{Path: "p", Matched: true})
	multi.OnScanComplete(models.ScanSummary{Files: 2, Matched: 1})

	for _, obs := range []*recordingObserver{a, b} {
		assert.Equal(t, 2, obs.started)
		assert.Len(t, obs.outcomes, 1)
		assert.Equal(t, 1, obs.summary.Matched)
	}
}
