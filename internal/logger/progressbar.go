package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/harrison/bytegrep/internal/models"
)

// ProgressBar represents an ASCII progress bar with color support
type ProgressBar struct {
	current     int
	total       int
	width       int
	enableColor bool
	prefix      string
	mu          sync.RWMutex
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{
		total:       total,
		width:       width,
		enableColor: enableColor,
	}
}

// SetTotal resets the bar to zero progress out of total
func (pb *ProgressBar) SetTotal(total int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.total = total
	pb.current = 0
}

// Increment increments the current progress by 1
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current++
}

// Current returns the current progress value
func (pb *ProgressBar) Current() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.current
}

// Percentage returns the progress percentage (0-100)
func (pb *ProgressBar) Percentage() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.percentage()
}

func (pb *ProgressBar) percentage() int {
	if pb.total == 0 {
		return 0
	}
	return min(max((pb.current*100)/pb.total, 0), 100)
}

// SetPrefix sets a custom prefix for the progress bar
func (pb *ProgressBar) SetPrefix(prefix string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.prefix = prefix
}

// Render generates the progress bar string.
// Format: "<prefix>[=====     ] 5/10 (50%)"
func (pb *ProgressBar) Render() string {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	perc := pb.percentage()
	filled := min((perc*pb.width)/100, pb.width)

	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", pb.width-filled) + "]"
	result := fmt.Sprintf("%s%s %d/%d (%d%%)", pb.prefix, bar, pb.current, pb.total, perc)

	if pb.enableColor {
		if perc < 100 {
			result = color.New(color.FgCyan).Sprint(result)
		} else {
			result = color.New(color.FgGreen).Sprint(result)
		}
	}

	return result
}

// ProgressObserver redraws a ProgressBar on one terminal line as files
// complete. It satisfies search.Observer.
type ProgressObserver struct {
	writer io.Writer
	bar    *ProgressBar
}

// NewProgressObserver creates a progress display on w.
// Color is enabled when w is a terminal.
func NewProgressObserver(w io.Writer) *ProgressObserver {
	bar := NewProgressBar(0, 30, IsTerminal(w))
	bar.SetPrefix("scanning ")
	return &ProgressObserver{writer: w, bar: bar}
}

// OnScanStart resets the bar for a new batch
func (p *ProgressObserver) OnScanStart(total int, _ *models.Pattern, _ string) {
	p.bar.SetTotal(total)
	p.draw()
}

// OnFileScanned advances the bar by one file
func (p *ProgressObserver) OnFileScanned(models.FileOutcome) {
	p.bar.Increment()
	p.draw()
}

// OnScanComplete ends the progress line
func (p *ProgressObserver) OnScanComplete(models.ScanSummary) {
	fmt.Fprintln(p.writer)
}

func (p *ProgressObserver) draw() {
	fmt.Fprintf(p.writer, "\r%s", p.bar.Render())
}
