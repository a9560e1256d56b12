// Package logger provides logging implementations for bytegrep scans.
//
// Loggers receive scan events (start, per-file outcome, summary) through the
// search.Observer methods and write them as levelled, timestamped lines.
// Implementations are thread-safe and support various output destinations
// (console, per-run log file, progress bar).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/bytegrep/internal/models"
	"github.com/mattn/go-isatty"
)

// ConsoleLogger logs scan progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: IsTerminal(writer),
	}
}

// IsTerminal reports whether w is a TTY that supports colors.
// Returns false when NO_COLOR is set or w is not an *os.File.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Level returns the normalized log level
func (cl *ConsoleLogger) Level() string {
	return cl.logLevel
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !allows(cl.logLevel, level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", color.New(color.FgHiBlack).Sprint(ts), coloredLevel, message)
}

// OnScanStart logs the start of a batch at INFO level.
func (cl *ConsoleLogger) OnScanStart(total int, pattern *models.Pattern, strategy string) {
	cl.LogInfo(fmt.Sprintf("Scanning %d %s for %q (%s)", total, plural(total, "file", "files"), pattern.String(), strategy))
}

// OnFileScanned logs a per-file outcome: matches at DEBUG, failures at WARN,
// everything else at TRACE.
func (cl *ConsoleLogger) OnFileScanned(outcome models.FileOutcome) {
	switch {
	case outcome.Failed():
		cl.LogWarn(fmt.Sprintf("Skipped %s: %v", outcome.Path, outcome.Err))
	case outcome.Matched:
		cl.LogDebug(fmt.Sprintf("Match in %s (%s)", outcome.Path, formatDuration(outcome.Elapsed)))
	default:
		cl.LogTrace(fmt.Sprintf("No match in %s (%s)", outcome.Path, formatDuration(outcome.Elapsed)))
	}
}

// OnScanComplete logs the batch summary at INFO level.
// Format: "Scanned N files in 1.2s: M matched, F failed"
func (cl *ConsoleLogger) OnScanComplete(summary models.ScanSummary) {
	matched := fmt.Sprintf("%d matched", summary.Matched)
	failed := fmt.Sprintf("%d failed", summary.Failed)
	if cl.colorOutput {
		matched = color.New(color.FgGreen).Sprint(matched)
		if summary.Failed > 0 {
			failed = color.New(color.FgRed).Sprint(failed)
		}
	}

	cl.LogInfo(fmt.Sprintf("Scanned %d %s in %s: %s, %s",
		summary.Files, plural(summary.Files, "file", "files"), formatDuration(summary.Duration), matched, failed))
}

// timestamp returns the current time formatted as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders short durations in ms and longer ones in seconds
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
