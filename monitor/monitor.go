// Package monitor provides the cross-cutting observation facility shared by
// the generation stages.
//
// Stages never log or measure through global state: an Observer is passed in
// explicitly wherever monitoring is wanted, and a no-op Observer is the
// default everywhere. Pipeline output is byte-identical whether monitoring
// is enabled or not — observers see timings and counters, they never make
// content decisions.
//
// Clock access for performance measurement is confined to this package and
// to the connectivity fallback deadline.
package monitor

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields carries structured stage metadata to an Observer.
type Fields map[string]any

// Observer receives stage lifecycle notifications from the pipeline.
type Observer interface {
	// StageStarted is called when a stage begins.
	StageStarted(stage string)
	// StageCompleted is called when a stage finishes, with its duration
	// and stage-specific fields.
	StageCompleted(stage string, elapsed time.Duration, fields Fields)
}

// nopObserver discards everything.
type nopObserver struct{}

func (nopObserver) StageStarted(string)                          {}
func (nopObserver) StageCompleted(string, time.Duration, Fields) {}

// Nop returns an Observer that discards all notifications.
func Nop() Observer { return nopObserver{} }

// LogObserver forwards stage notifications to a logrus logger as structured
// entries.
type LogObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver wraps a logrus logger. A nil logger falls back to the
// logrus standard logger.
func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogObserver{log: log}
}

// StageStarted logs the beginning of a stage at debug level.
func (o *LogObserver) StageStarted(stage string) {
	o.log.WithField("stage", stage).Debug("stage started")
}

// StageCompleted logs the stage duration and fields at info level.
func (o *LogObserver) StageCompleted(stage string, elapsed time.Duration, fields Fields) {
	entry := o.log.WithFields(logrus.Fields{
		"stage":      stage,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1e3,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	entry.Info("stage completed")
}

// Performance is a timing/memory snapshot attached to validation results
// when performance collection is enabled.
type Performance struct {
	Duration   time.Duration
	AllocBytes uint64
}

// Timer measures a stage for an optional Performance block.
type Timer struct {
	start       time.Time
	startAllocs uint64
}

// StartTimer begins a measurement.
func StartTimer() *Timer {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &Timer{start: time.Now(), startAllocs: ms.TotalAlloc}
}

// Stop returns the measurement since StartTimer.
func (t *Timer) Stop() Performance {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Performance{
		Duration:   time.Since(t.start),
		AllocBytes: ms.TotalAlloc - t.startAllocs,
	}
}
