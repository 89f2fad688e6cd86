package core

import "github.com/spaghettifunk/anima-xr/engine/containers"

const AVG_COUNT int = 30

// SyncMetrics accumulates counters for the mesh synchronizer. It is owned by
// a single synchronizer and is not safe for concurrent mutation.
type SyncMetrics struct {
	TicksRun       uint64
	TicksThrottled uint64
	TicksSkipped   uint64

	MeshesCreated  uint64
	MeshesUpdated  uint64
	MeshesRemoved  uint64
	MeshesCulled   uint64
	MeshesDeferred uint64

	// rolling window of reconciliation durations, in milliseconds
	tickTimes *containers.RingQueue[float64]
	MSavg     float64
}

func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{
		tickTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// RecordTick stores how long one reconciliation pass took.
func (m *SyncMetrics) RecordTick(elapsedMs float64) {
	m.TicksRun++
	m.tickTimes.Push(elapsedMs)

	sum := 0.0
	for _, v := range m.tickTimes.Values() {
		sum += v
	}
	m.MSavg = sum / float64(m.tickTimes.Len())
}

// AverageTickMs is the mean duration over the last AVG_COUNT passes.
func (m *SyncMetrics) AverageTickMs() float64 {
	return m.MSavg
}

// Snapshot returns a copy of the counters.
func (m *SyncMetrics) Snapshot() SyncMetrics {
	return SyncMetrics{
		TicksRun:       m.TicksRun,
		TicksThrottled: m.TicksThrottled,
		TicksSkipped:   m.TicksSkipped,
		MeshesCreated:  m.MeshesCreated,
		MeshesUpdated:  m.MeshesUpdated,
		MeshesRemoved:  m.MeshesRemoved,
		MeshesCulled:   m.MeshesCulled,
		MeshesDeferred: m.MeshesDeferred,
		MSavg:          m.MSavg,
	}
}
