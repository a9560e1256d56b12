// Package search implements the byte-pattern search at the heart of bytegrep.
//
// # Main Components
//
// ChunkedScanner - reads one file through a fixed-size buffer and reports
// whether the pattern occurs anywhere in it:
//   - Buffer capacity is max(min buffer size, len(pattern)+1), fixed per scan
//   - The trailing len(pattern)-1 bytes of each chunk are copied to the front
//     of the buffer before the next read, so matches that straddle a chunk
//     boundary are still seen in one contiguous view
//   - Scanning stops at the first match
//
// Orchestrator - dispatches one scan per path through a Strategy and joins
// the outcomes into a models.MatchSet:
//   - Sequential runs scans one at a time on the calling goroutine
//   - Parallel runs one goroutine per file, optionally bounded
//   - A failed file counts as a non-match; the failure is reported to the
//     Observer and, in strict mode, returned as a *BatchError after every
//     scan has completed
//
// # Usage
//
//	scanner := search.NewChunkedScanner(osfs.New("/"))
//	orch := search.NewOrchestrator(scanner,
//	    search.WithStrategy(search.NewParallel(0)),
//	)
//	matches, err := orch.ScanAll(ctx, paths, pattern)
//	if err != nil {
//	    return err
//	}
//	for _, path := range matches.Paths() {
//	    fmt.Println(strconv.Quote(path))
//	}
package search
