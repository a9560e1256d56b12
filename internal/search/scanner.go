package search

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/harrison/bytegrep/internal/models"
)

// DefaultMinBufferSize is the smallest read buffer used for a file scan (8 KB)
const DefaultMinBufferSize = 8 * 1024

// Scanner reports whether a file contains a pattern
type Scanner interface {
	Scan(ctx context.Context, path string, pattern *models.Pattern) (bool, error)
}

// ChunkedScanner searches files through a fixed-size buffer with an overlap
// carried between chunks. It holds no per-scan state and is safe for
// concurrent use; every Scan call owns its own buffer.
type ChunkedScanner struct {
	fs            billy.Filesystem
	minBufferSize int
}

// ScannerOption configures a ChunkedScanner
type ScannerOption func(*ChunkedScanner)

// WithMinBufferSize sets the buffer floor. Values below 1 are ignored.
func WithMinBufferSize(n int) ScannerOption {
	return func(s *ChunkedScanner) {
		if n >= 1 {
			s.minBufferSize = n
		}
	}
}

// NewChunkedScanner creates a scanner that opens files through fs
func NewChunkedScanner(fs billy.Filesystem, opts ...ScannerOption) *ChunkedScanner {
	s := &ChunkedScanner{
		fs:            fs,
		minBufferSize: DefaultMinBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BufferSize returns the buffer capacity used for pattern.
// It always leaves room for one full pattern plus one byte of new data.
func (s *ChunkedScanner) BufferSize(pattern *models.Pattern) int {
	return max(s.minBufferSize, pattern.Len()+1)
}

// Scan opens path and reports whether pattern occurs in its contents.
// Open and read failures are returned as *FileError.
func (s *ChunkedScanner) Scan(ctx context.Context, path string, pattern *models.Pattern) (bool, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return false, &FileError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	found, err := s.ScanReader(ctx, f, pattern)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		return false, &FileError{Path: path, Op: "read", Err: err}
	}
	return found, nil
}

// ScanReader reports whether pattern occurs anywhere in r.
// Memory use is bounded by BufferSize(pattern) regardless of stream length.
func (s *ChunkedScanner) ScanReader(ctx context.Context, r io.Reader, pattern *models.Pattern) (bool, error) {
	needle := pattern.Bytes()
	carry := len(needle) - 1
	buf := make([]byte, s.BufferSize(pattern))

	// valid is the number of meaningful bytes at the front of buf; after the
	// first chunk it starts at the carried overlap.
	valid := 0
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		n, err := r.Read(buf[valid:])
		if n > 0 {
			valid += n
			if bytes.Contains(buf[:valid], needle) {
				return true, nil
			}

			keep := min(carry, valid)
			copy(buf, buf[valid-keep:valid])
			valid = keep
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	}
}
