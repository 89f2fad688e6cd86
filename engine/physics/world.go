// Package physics keeps static collider representations of synced meshes.
// It does not simulate anything: bodies are registered, refreshed and
// queried so that an external physics runtime can pick them up.
package physics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
)

// StaticBody is an immovable collider built from one mesh.
type StaticBody struct {
	MeshID uint32
	Name   string
	Label  string
	// Bounds is the world-space axis aligned box of the mesh.
	Bounds math.Extents3D
	// Triangles holds world-space vertex positions, three per triangle.
	Triangles []math.Vec3
	// Generation counts how often the body was rebuilt.
	Generation uint32
}

type WorldConfig struct {
	Gravity math.Vec3
	// MaxBodyCount bounds the registry; 0 means unbounded.
	MaxBodyCount int
}

// World is the registry of static bodies, keyed by mesh id.
type World struct {
	config WorldConfig

	mu     sync.RWMutex
	bodies map[uint32]*StaticBody
}

func NewWorld(config WorldConfig) (*World, error) {
	if config.MaxBodyCount < 0 {
		err := fmt.Errorf("func NewWorld - config.MaxBodyCount must be >= 0: %w", core.ErrInvalidConfig)
		core.LogError(err.Error())
		return nil, err
	}
	return &World{
		config: config,
		bodies: make(map[uint32]*StaticBody),
	}, nil
}

func (w *World) Gravity() math.Vec3 {
	return w.config.Gravity
}

// Add registers a new body.
func (w *World) Add(body *StaticBody) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bodies[body.MeshID]; ok {
		return fmt.Errorf("body for mesh %d: %w", body.MeshID, core.ErrAlreadyRegistered)
	}
	if w.config.MaxBodyCount > 0 && len(w.bodies) >= w.config.MaxBodyCount {
		return fmt.Errorf("physics world holds %d bodies: %w", len(w.bodies), core.ErrNoFreeSlot)
	}
	w.bodies[body.MeshID] = body
	return nil
}

// Replace swaps the body for an already registered mesh.
func (w *World) Replace(body *StaticBody) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old, ok := w.bodies[body.MeshID]
	if !ok {
		return fmt.Errorf("body for mesh %d: %w", body.MeshID, core.ErrNotRegistered)
	}
	body.Generation = old.Generation + 1
	w.bodies[body.MeshID] = body
	return nil
}

// Remove drops the body of meshID. It reports whether one existed.
func (w *World) Remove(meshID uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bodies[meshID]; !ok {
		return false
	}
	delete(w.bodies, meshID)
	return true
}

func (w *World) Body(meshID uint32) (*StaticBody, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[meshID]
	return b, ok
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Bodies returns every body ordered by mesh id.
func (w *World) Bodies() []*StaticBody {
	w.mu.RLock()
	out := make([]*StaticBody, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].MeshID < out[j].MeshID })
	return out
}

// QueryPoint returns the bodies whose bounds contain p, ordered by mesh id.
func (w *World) QueryPoint(p math.Vec3) []*StaticBody {
	var out []*StaticBody
	for _, b := range w.Bodies() {
		if b.Bounds.Contains(p) {
			out = append(out, b)
		}
	}
	return out
}

// Clear drops every body.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bodies = make(map[uint32]*StaticBody)
}
