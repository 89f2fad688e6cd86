package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierPoolReusesReleasedSlots(t *testing.T) {
	p := NewIdentifierPool(2)
	a := p.AcquireNewID("a")
	b := p.AcquireNewID("b")
	c := p.AcquireNewID("c")
	assert.Equal(t, []uint32{0, 1, 2}, []uint32{a, b, c})

	require.NoError(t, p.ReleaseID(b))
	assert.ErrorIs(t, p.ReleaseID(b), ErrNotRegistered)
	assert.Equal(t, b, p.AcquireNewID("d"))
	assert.Equal(t, uint32(3), p.AcquireNewID("e"))
}

func TestIdentifierPoolReleaseErrors(t *testing.T) {
	p := NewIdentifierPool(1)
	assert.ErrorIs(t, p.ReleaseID(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.ReleaseID(0), ErrNotRegistered)
}

func TestClockWithSource(t *testing.T) {
	now := 10.0
	c := NewClockWithSource(func() float64 { return now })
	c.Start()
	now = 11.5
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
	assert.InDelta(t, 1500, c.ElapsedMs(), 1e-6)

	c.Stop()
	now = 20
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestEventBus(t *testing.T) {
	eb := NewEventBus()
	listenerA, listenerB := &struct{ n int }{}, &struct{ n int }{}
	var order []string

	require.True(t, eb.Register(EVENT_CODE_MESH_ADDED, listenerA, func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		order = append(order, "a")
		assert.Equal(t, EVENT_CODE_MESH_ADDED, data.Type)
		assert.Equal(t, uint32(7), data.Data.(*MeshEvent).MeshID)
		return false
	}))
	require.True(t, eb.Register(EVENT_CODE_MESH_ADDED, listenerB, func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		order = append(order, "b")
		return true
	}))
	assert.False(t, eb.Register(EVENT_CODE_MESH_ADDED, listenerA, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }))

	assert.True(t, eb.Fire(EVENT_CODE_MESH_ADDED, nil, &MeshEvent{MeshID: 7}))
	assert.Equal(t, []string{"a", "b"}, order)

	assert.True(t, eb.Unregister(EVENT_CODE_MESH_ADDED, listenerB))
	assert.False(t, eb.Unregister(EVENT_CODE_MESH_ADDED, listenerB))
	assert.False(t, eb.Fire(EVENT_CODE_MESH_ADDED, nil, &MeshEvent{MeshID: 7}))
	assert.False(t, eb.Fire(EVENT_CODE_MESH_REMOVED, nil, nil))
}

func TestSyncMetricsRollingAverage(t *testing.T) {
	m := NewSyncMetrics()
	for i := 0; i < AVG_COUNT; i++ {
		m.RecordTick(1)
	}
	assert.InDelta(t, 1.0, m.AverageTickMs(), 1e-9)

	for i := 0; i < AVG_COUNT; i++ {
		m.RecordTick(3)
	}
	assert.InDelta(t, 3.0, m.AverageTickMs(), 1e-9)
	assert.Equal(t, uint64(2*AVG_COUNT), m.Snapshot().TicksRun)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
