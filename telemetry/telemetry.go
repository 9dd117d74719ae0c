// Package telemetry wires logging and metrics for rwsemd the way the
// teacher, hashicorp/consul, wires them in agent/consul/leader_metrics.go:
// github.com/hashicorp/go-hclog for structured, named loggers, and
// github.com/armon/go-metrics (backed here by an in-memory sink, the usual
// pairing for local diagnostics) for counters and gauges.
package telemetry

import (
	"encoding/json"
	"os"
	"time"

	"github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"

	"github.com/minix3/rwsemd/rwsem"
)

// NewLogger builds the root logger for rwsemd, named "rwsemd". Callers
// take named sub-loggers off it (".dispatch", ".transport") the way
// consul's Server does for its subsystems.
func NewLogger(level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "rwsemd",
		Level: hclog.LevelFromString(level),
	})
}

// Metrics wraps an in-memory go-metrics sink and implements rwsem.Observer,
// so a *rwsem.Table can report call outcomes and occupancy directly into
// it without the core package importing armon/go-metrics itself.
type Metrics struct {
	sink   *metrics.InmemSink
	signal *metrics.InmemSignal
}

// NewMetrics creates the sink/signal pair and registers it as the global
// go-metrics sink, mirroring consul's usual metrics.NewGlobal call.
// retain is how long the in-memory sink keeps interval buckets.
func NewMetrics(serviceName string, retain time.Duration) (*Metrics, error) {
	if retain <= 0 {
		retain = 2 * time.Minute
	}
	sink := metrics.NewInmemSink(10*time.Second, retain)
	signal := metrics.NewInmemSignal(sink, metrics.DefaultSignal, os.Stderr)

	cfg := metrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	if _, err := metrics.NewGlobal(cfg, sink); err != nil {
		return nil, err
	}

	return &Metrics{sink: sink, signal: signal}, nil
}

// Close stops the SIGUSR1 dump signal handler.
func (m *Metrics) Close() {
	if m.signal != nil {
		m.signal.Stop()
	}
}

// Display renders the current interval's counters/gauges as JSON, the same
// data the SIGUSR1 handler would dump, for in-process readers such as
// tests. DisplayMetrics takes an http.ResponseWriter/*http.Request pair
// only to support being wired up as an HTTP handler elsewhere; nil, nil is
// the correct call for a plain in-process read, matching its own doc.
func (m *Metrics) Display() (string, error) {
	data, err := m.sink.DisplayMetrics(nil, nil)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var (
	keyCall      = []string{"rwsemd", "call"}
	keyCallError = []string{"rwsemd", "call", "error"}
	keyOccupancy = []string{"rwsemd", "table", "occupancy"}
	keyCapacity  = []string{"rwsemd", "table", "capacity"}
)

// OnCall implements rwsem.Observer.
func (m *Metrics) OnCall(op string, result rwsem.Errno) {
	labels := []metrics.Label{{Name: "op", Value: op}}
	metrics.IncrCounterWithLabels(keyCall, 1, labels)
	if result != rwsem.OK {
		metrics.IncrCounterWithLabels(keyCallError, 1, append(labels, metrics.Label{
			Name: "errno", Value: result.String(),
		}))
	}
}

// OnOccupancy implements rwsem.Observer.
func (m *Metrics) OnOccupancy(nonFree, capacity int) {
	metrics.SetGauge(keyOccupancy, float32(nonFree))
	metrics.SetGauge(keyCapacity, float32(capacity))
}
