package models

import (
	"sort"
	"time"
)

// FileOutcome is the result of scanning a single file
type FileOutcome struct {
	Path    string        // Path of the scanned file
	Matched bool          // True if the pattern occurs in the file
	Err     error         // Read or open failure, nil on success
	Elapsed time.Duration // Time spent scanning the file
}

// Failed returns true if the scan of the file did not complete
func (o FileOutcome) Failed() bool {
	return o.Err != nil
}

// ScanSummary aggregates the outcomes of one batch scan
type ScanSummary struct {
	Files    int           // Number of files dispatched
	Matched  int           // Number of files containing the pattern
	Failed   int           // Number of files whose scan failed
	Duration time.Duration // Wall time of the batch
}

// MatchSet is the set of file paths that contain the pattern.
// The zero value is not usable; use NewMatchSet.
type MatchSet struct {
	paths map[string]struct{}
}

// NewMatchSet creates an empty MatchSet
func NewMatchSet() *MatchSet {
	return &MatchSet{paths: make(map[string]struct{})}
}

// Add inserts a path; adding the same path twice has no effect
func (m *MatchSet) Add(path string) {
	m.paths[path] = struct{}{}
}

// Contains reports whether path is in the set
func (m *MatchSet) Contains(path string) bool {
	_, ok := m.paths[path]
	return ok
}

// Len returns the number of paths in the set
func (m *MatchSet) Len() int {
	return len(m.paths)
}

// Paths returns the paths sorted lexicographically
func (m *MatchSet) Paths() []string {
	out := make([]string, 0, len(m.paths))
	for p := range m.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same paths
func (m *MatchSet) Equal(other *MatchSet) bool {
	if other == nil || m.Len() != other.Len() {
		return false
	}
	for p := range m.paths {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}
