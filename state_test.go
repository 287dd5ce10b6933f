// FILE: lixenwraith/dlog/state_test.go
package dlog

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCounters(t *testing.T) {
	f, _, _ := createTestFacility(t, true, StaticModules{
		"stats": {Level: SeverityInfo, Output: OutputNone},
	})
	defer f.Shutdown()

	l, err := f.Register("stats")
	require.NoError(t, err)

	l.Debug("below threshold")
	for i := 0; i < 5; i++ {
		l.Info("counted")
	}
	require.NoError(t, f.Flush(time.Second))

	stats := f.Stats()
	assert.Equal(t, uint64(5), stats.Emitted, "gated records are not counted")
	assert.Zero(t, stats.Written, "none output writes nothing")
	assert.Zero(t, stats.Dropped)
	assert.Zero(t, stats.Queued)
	assert.Equal(t, 500, stats.Pool.Capacity)
	assert.Equal(t, uint64(5), stats.Pool.Acquires)
	assert.Equal(t, uint64(5), stats.Pool.Releases)
}

func TestStateCounterPadding(t *testing.T) {
	var s State

	// Producer and consumer counters live on different cache lines
	producer := uintptr(unsafe.Pointer(&s.Emitted))
	consumer := uintptr(unsafe.Pointer(&s.Written))
	assert.GreaterOrEqual(t, consumer-producer, uintptr(64))
}
