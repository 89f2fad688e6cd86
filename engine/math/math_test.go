package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, -3, -3), a.Sub(b))
	assert.InDelta(t, 32.0, float64(a.Dot(b)), tol)
	assert.Equal(t, NewVec3(-3, 6, -3), a.Cross(b))
	assert.InDelta(t, 5.0, float64(NewVec3(3, 4, 0).Length()), tol)
	assert.InDelta(t, 5.0, float64(NewVec3Zero().Distance(NewVec3(0, 0, -5))), tol)
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalized())
}

func TestRotateForward(t *testing.T) {
	tests := []struct {
		name  string
		q     Quaternion
		wantF Vec3
	}{
		{"identity", NewQuatIdentity(), NewVec3(0, 0, -1)},
		{"yaw left 90", NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true), NewVec3(-1, 0, 0)},
		{"yaw 180", NewQuatFromAxisAngle(NewVec3Up(), DegToRad(180), true), NewVec3(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVec3Forward().Rotate(tt.q)
			assert.True(t, got.Compare(tt.wantF, tol), "got %+v want %+v", got, tt.wantF)
		})
	}
}

func TestRotateMatchesMatrix(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3(1, 1, 0).Normalized(), 0.7, true)
	v := NewVec3(0.3, -2, 5)

	byQuat := v.Rotate(q)
	byMat := v.Transform(q.ToMat4())
	assert.True(t, byQuat.Compare(byMat, 1e-4), "quat %+v mat %+v", byQuat, byMat)
}

func TestTransformWorld(t *testing.T) {
	parent := TransformFromPosition(NewVec3(1, 0, 0))
	child := TransformFromPositionRotation(NewVec3(0, 0, -2), NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true))
	child.Parent = parent

	world := child.GetWorld()
	assert.True(t, world.Position().Compare(NewVec3(1, 0, -2), tol))

	origin := NewVec3Zero().Transform(world)
	assert.True(t, origin.Compare(NewVec3(1, 0, -2), tol))

	child.Translate(NewVec3(0, 1, 0))
	assert.True(t, child.IsDirty)
	assert.True(t, child.GetWorld().Position().Compare(NewVec3(1, 1, -2), tol))
	assert.False(t, child.IsDirty)
}

func TestGeometryHelpers(t *testing.T) {
	verts, err := VerticesFromPositions([]float32{
		0, 0, 0,
		1, 0, 0,
		0, 0, -1,
	})
	require.NoError(t, err)
	require.Len(t, verts, 3)

	GeometryGenerateNormals(verts, []uint32{0, 1, 2, 0, 1, 9})
	for _, v := range verts {
		assert.True(t, v.Normal.Compare(NewVec3(0, 1, 0), tol), "normal %+v", v.Normal)
	}

	ext, center := GeometryExtents(verts)
	assert.Equal(t, NewVec3(0, 0, -1), ext.Min)
	assert.Equal(t, NewVec3(1, 0, 0), ext.Max)
	assert.True(t, center.Compare(NewVec3(0.5, 0, -0.5), tol))

	moved := TransformExtents(ext, NewMat4Translation(NewVec3(0, 2, 0)))
	assert.True(t, moved.Contains(NewVec3(0.5, 2, -0.5)))
	assert.False(t, moved.Contains(NewVec3(0.5, 0, -0.5)))

	_, err = VerticesFromPositions([]float32{1, 2})
	assert.Error(t, err)
}

func TestClampAbs(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(3), -1, 1))
	assert.Equal(t, -1, Clamp(-4, -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, -1.0, 1.0))
	assert.Equal(t, 2.5, Abs(-2.5))
}
