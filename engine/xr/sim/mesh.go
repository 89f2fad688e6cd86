package sim

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

// Mesh is a simulated detected surface.
type Mesh struct {
	ID uuid.UUID

	label     xr.SemanticLabel
	positions []float32
	indices   []uint32
	changed   float64
	pose      *xr.Pose
}

var _ xr.SensorMesh = (*Mesh)(nil)

// NewMesh builds a mesh at pose with the given local vertex data.
func NewMesh(label xr.SemanticLabel, positions []float32, indices []uint32, pose xr.Pose) *Mesh {
	p := pose
	return &Mesh{
		ID:        uuid.New(),
		label:     label,
		positions: positions,
		indices:   indices,
		pose:      &p,
	}
}

// NewQuad builds a horizontal width x depth quad centred on pose.
func NewQuad(label xr.SemanticLabel, width, depth float32, pose xr.Pose) *Mesh {
	hw, hd := width*0.5, depth*0.5
	positions := []float32{
		-hw, 0, -hd,
		hw, 0, -hd,
		hw, 0, hd,
		-hw, 0, hd,
	}
	return NewMesh(label, positions, []uint32{0, 2, 1, 0, 3, 2}, pose)
}

// NewBox builds an axis aligned box centred on pose.
func NewBox(label xr.SemanticLabel, size math.Vec3, pose xr.Pose) *Mesh {
	h := size.MulScalar(0.5)
	positions := []float32{
		-h.X, -h.Y, -h.Z,
		h.X, -h.Y, -h.Z,
		h.X, h.Y, -h.Z,
		-h.X, h.Y, -h.Z,
		-h.X, -h.Y, h.Z,
		h.X, -h.Y, h.Z,
		h.X, h.Y, h.Z,
		-h.X, h.Y, h.Z,
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
		3, 7, 6, 3, 6, 2, // top
		0, 1, 5, 0, 5, 4, // bottom
	}
	return NewMesh(label, positions, indices, pose)
}

func (m *Mesh) SemanticLabel() xr.SemanticLabel { return m.label }

func (m *Mesh) Vertices() []float32 { return m.positions }

func (m *Mesh) Indices() []uint32 { return m.indices }

func (m *Mesh) LastChangedTime() float64 { return m.changed }

// SetVertices replaces the vertex data, as the runtime does when it refines a surface.
func (m *Mesh) SetVertices(positions []float32, indices []uint32, time float64) {
	m.positions = positions
	m.indices = indices
	m.changed = time
}

// SetPose moves the mesh.
func (m *Mesh) SetPose(pose xr.Pose) {
	p := pose
	m.pose = &p
}

// ClearPose makes pose lookups for the mesh fail.
func (m *Mesh) ClearPose() {
	m.pose = nil
}

// Pose returns the current pose, if any.
func (m *Mesh) Pose() (xr.Pose, bool) {
	if m.pose == nil {
		return xr.Pose{}, false
	}
	return *m.pose, true
}
