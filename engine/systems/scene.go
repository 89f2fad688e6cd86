package systems

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
)

// Scene is the set of meshes currently attached for rendering. The
// synchronizer is its only writer.
type Scene struct {
	meshes map[uint32]*metadata.Mesh
}

func NewScene() *Scene {
	return &Scene{
		meshes: make(map[uint32]*metadata.Mesh),
	}
}

// Attach adds mesh to the scene.
func (s *Scene) Attach(mesh *metadata.Mesh) error {
	if mesh == nil {
		return core.ErrNilMesh
	}
	if _, ok := s.meshes[mesh.UniqueID]; ok {
		return fmt.Errorf("scene attach '%s' (id %d): %w", mesh.Name, mesh.UniqueID, core.ErrAlreadyRegistered)
	}
	s.meshes[mesh.UniqueID] = mesh
	return nil
}

// Detach removes mesh; it reports whether the mesh was attached.
func (s *Scene) Detach(mesh *metadata.Mesh) bool {
	if mesh == nil {
		return false
	}
	if cur, ok := s.meshes[mesh.UniqueID]; !ok || cur != mesh {
		return false
	}
	delete(s.meshes, mesh.UniqueID)
	return true
}

func (s *Scene) Contains(mesh *metadata.Mesh) bool {
	if mesh == nil {
		return false
	}
	cur, ok := s.meshes[mesh.UniqueID]
	return ok && cur == mesh
}

func (s *Scene) Len() int {
	return len(s.meshes)
}

// Meshes returns the attached meshes ordered by id.
func (s *Scene) Meshes() []*metadata.Mesh {
	out := make([]*metadata.Mesh, 0, len(s.meshes))
	for _, m := range s.meshes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UniqueID < out[j].UniqueID })
	return out
}

// VisibleCount counts attached meshes whose material draws something.
func (s *Scene) VisibleCount() int {
	n := 0
	for _, m := range s.meshes {
		if m.Visible {
			n++
		}
	}
	return n
}

func (s *Scene) Shutdown() error {
	s.meshes = make(map[uint32]*metadata.Mesh)
	return nil
}
