package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minix3/rwsemd/rwsem"
)

func TestMetricsDisplayReflectsCalls(t *testing.T) {
	m, err := NewMetrics("rwsemd-test", 2*time.Minute)
	require.NoError(t, err)
	defer m.Close()

	m.OnCall("get", rwsem.OK)
	m.OnCall("read_lock", rwsem.ENOENT)
	m.OnOccupancy(3, 500)

	out, err := m.Display()
	require.NoError(t, err)
	require.NotEmpty(t, out)

	var summary struct {
		Counters []map[string]any
		Gauges   []map[string]any
		Points   []map[string]any
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.NotEmpty(t, summary.Gauges, "OnOccupancy's gauges should show up in the interval summary")
}

func TestNewLoggerNamesRoot(t *testing.T) {
	logger := NewLogger("debug")
	require.Equal(t, "rwsemd", logger.Name())
}
