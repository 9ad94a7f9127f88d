// Package metrics records per-run counters and stage timings. The default
// recorder discards everything; NewPushRecorder sends them to a Prometheus
// Pushgateway once the run ends.
package metrics

import "time"

// Record kinds counted by the pipeline.
const (
	KindRead        = "read"
	KindDetail      = "detail"
	KindSkipped     = "skipped"
	KindParseErrors = "parse_errors"
	KindDeduped     = "deduped"
	KindExported    = "exported"
	KindLoaded      = "loaded"
)

// Recorder is what the pipeline reports to.
type Recorder interface {
	AddRecords(kind string, n int)
	ObserveStage(stage string, d time.Duration)
	// Flush delivers everything recorded so far.
	Flush() error
}

type nopRecorder struct{}

func (nopRecorder) AddRecords(string, int)             {}
func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) Flush() error                       { return nil }

// Nop returns a Recorder that does nothing.
func Nop() Recorder { return nopRecorder{} }
