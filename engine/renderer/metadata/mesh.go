package metadata

import (
	"github.com/spaghettifunk/anima-xr/engine/math"
)

// Mesh is the scene-side mirror of one detected real-world surface.
type Mesh struct {
	UniqueID uint32
	// Name is unique per process, "mesh-<uuid>".
	Name string
	// Generation is bumped every time the geometry or transform is refreshed.
	Generation uint32
	// Label is the semantic label the material was chosen for.
	Label     string
	Geometry  *Geometry
	Transform *math.Transform
	// Visible mirrors the material visibility, for consumers that skip invisible draws.
	Visible bool
}

// WorldExtents returns the axis-aligned world bounds of the mesh geometry.
func (m *Mesh) WorldExtents() math.Extents3D {
	if m == nil || m.Geometry == nil {
		return math.Extents3D{}
	}
	return math.TransformExtents(m.Geometry.Extents, m.Transform.GetWorld())
}
