// Package report renders the set of matching files, one quoted path per
// line, to a writer and optionally to a report file.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/harrison/bytegrep/internal/models"
)

// Format renders matches as sorted, quoted paths, one per line
func Format(matches *models.MatchSet) []byte {
	var buf bytes.Buffer
	if matches == nil {
		return buf.Bytes()
	}
	for _, path := range matches.Paths() {
		buf.WriteString(strconv.Quote(path))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Writer sends the match list to an output stream and, when configured, to a
// report file that is replaced atomically under an exclusive lock.
type Writer struct {
	out        io.Writer
	outputPath string
}

// NewWriter creates a Writer printing to out.
// An empty outputPath disables the report file.
func NewWriter(out io.Writer, outputPath string) *Writer {
	return &Writer{out: out, outputPath: outputPath}
}

// Write prints matches and writes the report file if one was requested.
func (w *Writer) Write(matches *models.MatchSet) error {
	data := Format(matches)

	if w.out != nil {
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}

	if w.outputPath == "" {
		return nil
	}
	if err := LockAndWrite(w.outputPath, data); err != nil {
		return fmt.Errorf("failed to write report %s: %w", w.outputPath, err)
	}
	return nil
}
