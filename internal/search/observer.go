package search

import "github.com/harrison/bytegrep/internal/models"

// Observer receives scan progress. The Orchestrator calls every method from
// the goroutine that invoked ScanAll, never concurrently.
type Observer interface {
	OnScanStart(total int, pattern *models.Pattern, strategy string)
	OnFileScanned(outcome models.FileOutcome)
	OnScanComplete(summary models.ScanSummary)
}

// NoOpObserver discards all events
type NoOpObserver struct{}

// OnScanStart does nothing
func (NoOpObserver) OnScanStart(int, *models.Pattern, string) {}

// OnFileScanned does nothing
func (NoOpObserver) OnFileScanned(models.FileOutcome) {}

// OnScanComplete does nothing
func (NoOpObserver) OnScanComplete(models.ScanSummary) {}

// MultiObserver forwards every event to each observer in order
type MultiObserver []Observer

// OnScanStart forwards the event
func (m MultiObserver) OnScanStart(total int, pattern *models.Pattern, strategy string) {
	for _, o := range m {
		o.OnScanStart(total, pattern, strategy)
	}
}

// OnFileScanned forwards the event
func (m MultiObserver) OnFileScanned(outcome models.FileOutcome) {
	for _, o := range m {
		o.OnFileScanned(outcome)
	}
}

// OnScanComplete forwards the event
func (m MultiObserver) OnScanComplete(summary models.ScanSummary) {
	for _, o := range m {
		o.OnScanComplete(summary)
	}
}
