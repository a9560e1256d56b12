package models

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Sentinel usage errors returned when building a Pattern
var (
	ErrEmptyPattern = errors.New("pattern must not be empty")
	ErrInvalidUTF8  = errors.New("pattern is not valid UTF-8")
)

// UsageError reports a command-line usage problem detected before any scanning begins
type UsageError struct {
	Message string // Human-readable description
	Err     error  // Underlying cause (optional)
}

// Error implements the error interface for UsageError.
func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("usage: %s: %v", e.Message, e.Err)
	}
	return "usage: " + e.Message
}

// Unwrap returns the underlying error for error wrapping support.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// Pattern is the exact byte sequence searched for.
// A Pattern is immutable once built and is safe to share between goroutines.
type Pattern struct {
	raw []byte
}

// NewPattern builds a Pattern from the raw bytes of a UTF-8 string.
// Empty and non-UTF-8 input is rejected with a *UsageError.
func NewPattern(s string) (*Pattern, error) {
	if s == "" {
		return nil, &UsageError{Message: "invalid pattern argument", Err: ErrEmptyPattern}
	}
	if !utf8.ValidString(s) {
		return nil, &UsageError{Message: "invalid pattern argument", Err: ErrInvalidUTF8}
	}
	return &Pattern{raw: []byte(s)}, nil
}

// NewBytePattern builds a Pattern from arbitrary bytes. The input is copied.
func NewBytePattern(b []byte) (*Pattern, error) {
	if len(b) == 0 {
		return nil, &UsageError{Message: "invalid pattern argument", Err: ErrEmptyPattern}
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	return &Pattern{raw: raw}, nil
}

// Bytes returns the pattern bytes. Callers must not modify the returned slice.
func (p *Pattern) Bytes() []byte {
	return p.raw
}

// Len returns the pattern length in bytes
func (p *Pattern) Len() int {
	return len(p.raw)
}

// String returns the pattern as a string
func (p *Pattern) String() string {
	return string(p.raw)
}
