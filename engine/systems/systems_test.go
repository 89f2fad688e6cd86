package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

func newMaterials(t *testing.T) *MaterialSystem {
	t.Helper()
	ms, err := NewMaterialSystem(DefaultMaterialSystemConfig())
	require.NoError(t, err)
	return ms
}

func TestMaterialSystem(t *testing.T) {
	t.Run("registers defaults", func(t *testing.T) {
		ms := newMaterials(t)
		names := ms.Names()
		assert.Contains(t, names, metadata.InvisibleMaterialName)
		assert.Contains(t, names, metadata.WireframeMaterialName)
		assert.Contains(t, names, "debug.wall")
		assert.NotContains(t, names, "debug.other")
		assert.True(t, ms.GetDefault().Invisible)
	})

	t.Run("acquire and release count references", func(t *testing.T) {
		ms := newMaterials(t)
		m := ms.Acquire("debug.floor")
		require.NotNil(t, m)
		assert.Equal(t, "debug.floor", m.Name)
		ms.Acquire("debug.floor")
		assert.Equal(t, uint64(2), ms.ReferenceCount("debug.floor"))
		ms.Release("debug.floor")
		ms.Release("debug.floor")
		ms.Release("debug.floor")
		assert.Equal(t, uint64(0), ms.ReferenceCount("debug.floor"))
	})

	t.Run("unknown name falls back to invisible", func(t *testing.T) {
		ms := newMaterials(t)
		assert.Same(t, ms.GetDefault(), ms.Acquire("debug.nope"))
	})

	t.Run("rejects unknown labels", func(t *testing.T) {
		config := DefaultMaterialSystemConfig()
		config.LabelColours["lamp"] = [4]float32{1, 1, 1, 1}
		_, err := NewMaterialSystem(config)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	t.Run("rejects colours out of range", func(t *testing.T) {
		config := DefaultMaterialSystemConfig()
		config.LabelColours["wall"] = [4]float32{2, 0, 0, 1}
		_, err := NewMaterialSystem(config)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	t.Run("reconfigure leaves held materials alone", func(t *testing.T) {
		ms := newMaterials(t)
		held := ms.Acquire("debug.wall")
		before := held.DiffuseColour

		config := DefaultMaterialSystemConfig()
		config.LabelColours["wall"] = [4]float32{1, 0, 0, 1}
		require.NoError(t, ms.Reconfigure(config))

		assert.Equal(t, before, held.DiffuseColour)
		fresh := ms.Acquire("debug.wall")
		assert.Equal(t, float32(1), fresh.DiffuseColour.X)
		assert.NotSame(t, held, fresh)
	})

	t.Run("reconfigure drops labels removed from the config", func(t *testing.T) {
		ms := newMaterials(t)
		held := ms.Acquire("debug.table")

		config := DefaultMaterialSystemConfig()
		delete(config.LabelColours, "table")
		delete(config.LabelColours, "couch")
		require.NoError(t, ms.Reconfigure(config))

		assert.NotContains(t, ms.Names(), "debug.couch")
		assert.Contains(t, ms.Names(), "debug.table", "still held")
		assert.Equal(t, metadata.WireframeMaterialName, ms.SelectForLabel(xr.LabelTable))
		assert.Equal(t, metadata.WireframeMaterialName, ms.SelectForLabel(xr.LabelCouch))

		ms.Release(held.Name)
		assert.NotContains(t, ms.Names(), "debug.table")
		assert.Equal(t, "debug.wall", ms.SelectForLabel(xr.LabelWall))
	})
}

func TestSelectForLabel(t *testing.T) {
	ms := newMaterials(t)
	assert.Equal(t, "debug.couch", ms.SelectForLabel(xr.LabelCouch))
	assert.Equal(t, metadata.WireframeMaterialName, ms.SelectForLabel(xr.LabelOther))

	config := DefaultMaterialSystemConfig()
	config.ShowWireframe = false
	require.NoError(t, ms.Reconfigure(config))
	assert.Equal(t, metadata.InvisibleMaterialName, ms.SelectForLabel(xr.LabelNone))
	assert.Equal(t, "debug.couch", ms.SelectForLabel(xr.LabelCouch))
}

func TestGeometrySystem(t *testing.T) {
	ms := newMaterials(t)

	t.Run("zero capacity is rejected", func(t *testing.T) {
		_, err := NewGeometrySystem(&GeometrySystemConfig{}, ms)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: 2}, ms)
	require.NoError(t, err)

	quad := []float32{-1, 0, -1, 1, 0, -1, 1, 0, 1, -1, 0, 1}
	config, err := gs.GenerateFromVertexData("quad", quad, []uint32{0, 2, 1, 0, 3, 2}, "debug.table")
	require.NoError(t, err)
	assert.Equal(t, float32(-1), config.Extents.Min.X)
	assert.Equal(t, float32(1), config.Extents.Max.Z)
	assert.InDelta(t, 0, config.Center.X, 1e-6)

	t.Run("malformed vertex data", func(t *testing.T) {
		_, err := gs.GenerateFromVertexData("bad", []float32{1, 2, 3, 4}, nil, "")
		assert.ErrorIs(t, err, core.ErrMalformedVertices)
	})

	t.Run("empty material means invisible", func(t *testing.T) {
		c, err := gs.GenerateFromVertexData("", nil, nil, "")
		require.NoError(t, err)
		assert.Equal(t, metadata.InvisibleMaterialName, c.MaterialName)
		assert.Equal(t, metadata.DefaultGeometryName, c.Name)
	})

	g1, err := gs.AcquireFromConfig(config, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), g1.ID)
	assert.Equal(t, "debug.table", g1.Material.Name)
	assert.Equal(t, uint64(1), ms.ReferenceCount("debug.table"))

	g2, err := gs.AcquireFromConfig(config, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), g2.ID)

	t.Run("full registry grows", func(t *testing.T) {
		g3, err := gs.AcquireFromConfig(config, true)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), g3.ID)
		assert.Len(t, gs.RegisteredGeometries, 3)
		assert.Same(t, g3, gs.RegisteredGeometries[2].Geometry)
	})
	assert.Equal(t, 3, gs.LiveCount())
	assert.Equal(t, uint64(3), ms.ReferenceCount("debug.table"))

	t.Run("nil config is rejected", func(t *testing.T) {
		_, err := gs.AcquireFromConfig(nil, true)
		assert.ErrorIs(t, err, core.ErrNilGeometry)
	})

	t.Run("update bumps generation", func(t *testing.T) {
		c, err := gs.GenerateFromVertexData("quad", quad[:9], []uint32{0, 1, 2}, "debug.table")
		require.NoError(t, err)
		require.NoError(t, gs.Update(g1, c))
		assert.Equal(t, 3, g1.VertexCount())
		assert.Equal(t, uint16(1), g1.Generation)
	})

	t.Run("release destroys auto release geometry", func(t *testing.T) {
		gs.Release(g1)
		assert.Equal(t, metadata.InvalidID, g1.ID)
		assert.Equal(t, uint64(2), ms.ReferenceCount("debug.table"), "g2 and g3 still hold the material")
		assert.ErrorIs(t, gs.Update(g1, config), core.ErrNilGeometry)
		assert.Equal(t, 2, gs.LiveCount())
	})

	t.Run("freed slot is reused before growing", func(t *testing.T) {
		g, err := gs.AcquireFromConfig(config, true)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), g.ID)
		assert.Len(t, gs.RegisteredGeometries, 3)
	})

	require.NoError(t, gs.Shutdown())
	assert.Equal(t, 0, gs.LiveCount())
	assert.Equal(t, uint64(0), ms.ReferenceCount("debug.table"))
}

func TestScene(t *testing.T) {
	s := NewScene()
	a := &metadata.Mesh{UniqueID: 2, Name: "a", Visible: true}
	b := &metadata.Mesh{UniqueID: 1, Name: "b"}

	require.NoError(t, s.Attach(a))
	require.NoError(t, s.Attach(b))
	assert.ErrorIs(t, s.Attach(a), core.ErrAlreadyRegistered)
	assert.ErrorIs(t, s.Attach(nil), core.ErrNilMesh)

	assert.Equal(t, []*metadata.Mesh{b, a}, s.Meshes())
	assert.Equal(t, 1, s.VisibleCount())

	impostor := &metadata.Mesh{UniqueID: 2}
	assert.False(t, s.Contains(impostor))
	assert.False(t, s.Detach(impostor))

	assert.True(t, s.Detach(a))
	assert.False(t, s.Detach(a))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Shutdown())
	assert.Equal(t, 0, s.Len())
}
