package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/bytegrep/internal/models"
)

// FileLogger writes one log file per run into a log directory and maintains
// a latest.log symlink pointing to the most recent run.
// Every per-file outcome is recorded at DEBUG level so the log can be used to
// audit which files were scanned. It is thread-safe.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	runID    string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir at the given level.
// The directory is created if needed. The run log is named
// run-YYYYMMDD-HHMMSS-<id>.log where id is the first 8 characters of a
// random run ID.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runID := uuid.NewString()
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s-%s.log", ts, runID[:8]))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		runID:    runID,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== bytegrep Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Run ID: %s\n", runID))
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// RunID returns the unique identifier of this run
func (fl *FileLogger) RunID() string {
	return fl.runID
}

// Path returns the path of the run log file
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !allows(fl.logLevel, level) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// OnScanStart records the batch parameters.
func (fl *FileLogger) OnScanStart(total int, pattern *models.Pattern, strategy string) {
	fl.LogInfo(fmt.Sprintf("Scanning %d %s for %q (%d bytes, %s)",
		total, plural(total, "file", "files"), pattern.String(), pattern.Len(), strategy))
}

// OnFileScanned records every outcome; failures at WARN, the rest at DEBUG.
func (fl *FileLogger) OnFileScanned(outcome models.FileOutcome) {
	switch {
	case outcome.Failed():
		fl.LogWarn(fmt.Sprintf("FAILED %s: %v", outcome.Path, outcome.Err))
	case outcome.Matched:
		fl.LogDebug(fmt.Sprintf("MATCH %s (%s)", outcome.Path, formatDuration(outcome.Elapsed)))
	default:
		fl.LogDebug(fmt.Sprintf("NONE %s (%s)", outcome.Path, formatDuration(outcome.Elapsed)))
	}
}

// OnScanComplete writes the scan summary block at INFO level.
func (fl *FileLogger) OnScanComplete(summary models.ScanSummary) {
	if !allows(fl.logLevel, "info") {
		return
	}

	ts := timestamp()
	status := "SUCCESS"
	if summary.Failed > 0 {
		status = "PARTIAL"
	}

	fl.writeRunLog(fmt.Sprintf(
		"\n[%s] === SCAN SUMMARY ===\n"+
			"[%s] Files:        %d\n"+
			"[%s] Matched:      %d\n"+
			"[%s] Failed:       %d\n"+
			"[%s] Total time:   %.3fs\n"+
			"[%s] Status:       %s\n"+
			"[%s] Completed at: %s\n",
		ts,
		ts, summary.Files,
		ts, summary.Matched,
		ts, summary.Failed,
		ts, summary.Duration.Seconds(),
		ts, status,
		ts, time.Now().Format(time.RFC3339),
	))
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	if err := fl.runLog.Sync(); err != nil {
		fl.runLog.Close()
		fl.runLog = nil
		return fmt.Errorf("failed to sync run log: %w", err)
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	if err != nil {
		return fmt.Errorf("failed to close run log: %w", err)
	}
	return nil
}

// writeRunLog appends message to the run log; it is a no-op after Close.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(message)
}
