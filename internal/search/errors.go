package search

import (
	"fmt"
	"strings"
)

// FileError reports a failure to open or read one file during a scan.
// It is scoped to that file and never aborts the rest of a batch.
type FileError struct {
	Path string // File that failed
	Op   string // "open" or "read"
	Err  error  // Underlying I/O error
}

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileError) Unwrap() error {
	return e.Err
}

// BatchError aggregates the file errors of one batch in strict mode.
type BatchError struct {
	Failures   []error // Per-file errors, in completion order
	TotalFiles int     // Number of files dispatched
}

// Error implements the error interface for BatchError.
func (e *BatchError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d of %d files failed to scan", len(e.Failures), e.TotalFiles))
	for _, err := range e.Failures {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	return e.Failures
}
