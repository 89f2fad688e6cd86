package metadata

import (
	"github.com/spaghettifunk/anima-xr/engine/math"
)

/** @brief Name given to geometries created without one. */
const DefaultGeometryName string = "default"

/**
 * @brief Everything needed to create or refresh a geometry, derived from the
 * flat vertex buffer of a detected mesh.
 */
type GeometryConfig struct {
	Name         string
	MaterialName string

	Vertices []math.Vertex3D
	Indices  []uint32

	/** @brief Local-space centre and bounds of Vertices. */
	Center  math.Vec3
	Extents math.Extents3D
}

// GeometryReference is one slot of the geometry registry.
type GeometryReference struct {
	ReferenceCount uint64
	Geometry       *Geometry
	// Destroy the geometry once ReferenceCount drops to zero.
	AutoRelease bool
}

/**
 * @brief The geometry of a synced mesh. ID indexes the registry slot and is
 * InvalidID once the geometry has been destroyed.
 */
type Geometry struct {
	ID uint32
	/** @brief Bumped on every vertex refresh. */
	Generation uint16
	Name       string

	Center  math.Vec3
	Extents math.Extents3D

	Material *Material
	Vertices []math.Vertex3D
	Indices  []uint32
}

func (g *Geometry) VertexCount() int {
	return len(g.Vertices)
}

func (g *Geometry) IndexCount() int {
	return len(g.Indices)
}
