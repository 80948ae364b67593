package diagnostics

import (
	"testing"
	"time"

	"Mower/internal/behaviour"
	"Mower/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixedCount int

func (c fixedCount) EntityCount() int { return int(c) }

func value(t *testing.T, s *Store, path Path) float64 {
	t.Helper()
	snap, ok := s.Snapshot(path)
	require.True(t, ok, path)
	require.True(t, snap.HasValue, path)
	return snap.Value
}

func TestFrameTimePlugin(t *testing.T) {
	d := New(FrameTimePlugin{})

	d.Update(t0, behaviour.Time{Frame: 1})
	_, ok := d.Snapshot(FPS)
	assert.True(t, ok)
	snap, _ := d.Snapshot(FPS)
	assert.False(t, snap.HasValue, "zero delta must not produce an FPS sample")
	assert.Equal(t, 1.0, value(t, d.Store, FrameCount))

	d.Update(t0.Add(20*time.Millisecond), behaviour.Time{Frame: 2, Delta: 20 * time.Millisecond})
	assert.InDelta(t, 50.0, value(t, d.Store, FPS), 1e-9)
	assert.InDelta(t, 20.0, value(t, d.Store, FrameTime), 1e-9)
	assert.Equal(t, 2.0, value(t, d.Store, FrameCount))
}

func TestEntityCountPlugin(t *testing.T) {
	d := New(EntityCountPlugin{World: fixedCount(5)})

	d.Update(t0, behaviour.Time{})

	assert.Equal(t, 5.0, value(t, d.Store, EntityCount))
}

func TestEntityCountPluginWithWorld(t *testing.T) {
	w := behaviour.NewWorld()
	w.Spawn(behaviour.NewGameObject("a"))
	d := New(EntityCountPlugin{World: w})

	d.Update(t0, behaviour.Time{})
	w.Spawn(behaviour.NewGameObject("b"))
	d.Update(t0, behaviour.Time{})

	assert.Equal(t, 2.0, value(t, d.Store, EntityCount))
}

func TestSystemInfoPluginSamplesAtInterval(t *testing.T) {
	p := NewSystemInfoPlugin()
	d := New(p)

	d.Update(t0, behaviour.Time{})
	d.Update(t0.Add(100*time.Millisecond), behaviour.Time{})

	h, _ := d.Get(HeapMemory)
	assert.Equal(t, 1, h.HistoryLen())

	d.Update(t0.Add(1100*time.Millisecond), behaviour.Time{})
	assert.Equal(t, 2, h.HistoryLen())

	assert.GreaterOrEqual(t, value(t, d.Store, CPUCount), 1.0)
	assert.GreaterOrEqual(t, value(t, d.Store, Goroutines), 1.0)
	assert.Greater(t, value(t, d.Store, SysMemory), 0.0)
}

func TestHostInfo(t *testing.T) {
	info := HostInfo()

	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Arch)
	assert.GreaterOrEqual(t, info.CPUs, 1)
}

func TestLogPlugin(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	lp := NewLogPlugin()
	d := New(FrameTimePlugin{}, EntityCountPlugin{World: fixedCount(3)}, lp)

	d.Update(t0, behaviour.Time{Frame: 1})
	d.Update(t0.Add(500*time.Millisecond), behaviour.Time{Frame: 2, Delta: 500 * time.Millisecond})
	assert.Zero(t, logs.FilterMessage("diagnostic").Len())

	d.Update(t0.Add(1500*time.Millisecond), behaviour.Time{Frame: 3, Delta: time.Second})
	entries := logs.FilterMessage("diagnostic").AllUntimed()
	// entity_count, fps, frame_count, frame_time
	require.Len(t, entries, 4)
	assert.Equal(t, string(EntityCount), entries[0].ContextMap()["path"])
}

func TestLogPluginFilter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	lp := &LogPlugin{Interval: time.Second, Filter: []Path{FPS}}
	d := New(FrameTimePlugin{}, lp)

	d.Update(t0, behaviour.Time{Frame: 1})
	d.Update(t0.Add(2*time.Second), behaviour.Time{Frame: 2, Delta: 2 * time.Second})

	entries := logs.FilterMessage("diagnostic").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, string(FPS), entries[0].ContextMap()["path"])
}
