package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
)

func quadMesh(id uint32, at math.Vec3) *metadata.Mesh {
	verts := []math.Vertex3D{
		{Position: math.NewVec3(-0.5, 0, -0.5)},
		{Position: math.NewVec3(0.5, 0, -0.5)},
		{Position: math.NewVec3(0.5, 0, 0.5)},
		{Position: math.NewVec3(-0.5, 0, 0.5)},
	}
	ext, center := math.GeometryExtents(verts)
	return &metadata.Mesh{
		UniqueID:  id,
		Name:      "quad",
		Label:     "table",
		Transform: math.TransformFromPosition(at),
		Geometry: &metadata.Geometry{
			Vertices: verts,
			Indices:  []uint32{0, 2, 1, 0, 3, 2},
			Extents:  ext,
			Center:   center,
		},
	}
}

func TestRegistrarBuildsWorldSpaceBody(t *testing.T) {
	w, err := NewWorld(WorldConfig{Gravity: math.NewVec3(0, -9.81, 0)})
	require.NoError(t, err)
	r := NewStaticMeshRegistrar()

	m := quadMesh(3, math.NewVec3(0, 1, -2))
	require.NoError(t, r.RegisterMesh(m, w))

	b, ok := w.Body(3)
	require.True(t, ok)
	assert.Equal(t, "table", b.Label)
	assert.Len(t, b.Triangles, 6)
	assert.True(t, b.Bounds.Min.Compare(math.NewVec3(-0.5, 1, -2.5), 1e-5))
	assert.True(t, b.Bounds.Max.Compare(math.NewVec3(0.5, 1, -1.5), 1e-5))

	hits := w.QueryPoint(math.NewVec3(0, 1, -2))
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(3), hits[0].MeshID)
	assert.Empty(t, w.QueryPoint(math.NewVec3(0, 0, 0)))
}

func TestRegistrarRefreshesKnownMesh(t *testing.T) {
	w, err := NewWorld(WorldConfig{})
	require.NoError(t, err)
	r := NewStaticMeshRegistrar()

	m := quadMesh(1, math.NewVec3Zero())
	require.NoError(t, r.RegisterMesh(m, w))
	m.Transform.SetPosition(math.NewVec3(10, 0, 0))
	require.NoError(t, r.RegisterMesh(m, w))

	b, _ := w.Body(1)
	assert.Equal(t, uint32(1), b.Generation)
	assert.True(t, b.Bounds.Contains(math.NewVec3(10, 0, 0)))
	assert.Equal(t, 1, w.Len())

	r.UnregisterMesh(m, w)
	assert.Equal(t, 0, w.Len())
	r.UnregisterMesh(m, w)
}

func TestRegistrarRejectsIncompleteMeshes(t *testing.T) {
	w, _ := NewWorld(WorldConfig{})
	r := NewStaticMeshRegistrar()

	assert.ErrorIs(t, r.RegisterMesh(nil, w), core.ErrNilMesh)
	assert.ErrorIs(t, r.RegisterMesh(&metadata.Mesh{}, w), core.ErrNilGeometry)
}

func TestWorldLimits(t *testing.T) {
	_, err := NewWorld(WorldConfig{MaxBodyCount: -1})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	w, err := NewWorld(WorldConfig{MaxBodyCount: 1})
	require.NoError(t, err)
	require.NoError(t, w.Add(&StaticBody{MeshID: 1}))
	assert.ErrorIs(t, w.Add(&StaticBody{MeshID: 1}), core.ErrAlreadyRegistered)
	assert.ErrorIs(t, w.Add(&StaticBody{MeshID: 2}), core.ErrNoFreeSlot)
	assert.ErrorIs(t, w.Replace(&StaticBody{MeshID: 2}), core.ErrNotRegistered)

	w.Clear()
	assert.Zero(t, w.Len())
	assert.False(t, w.Remove(1))
}
