package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/anima-xr/engine/math"
)

func TestCameraDefaultsLookDownNegativeZ(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, math.NewVec3Zero(), c.GetPosition())
	assert.True(t, c.Forward().Compare(math.NewVec3(0, 0, -1), 1e-6))
}

func TestCameraYawAndMove(t *testing.T) {
	c := NewCamera()
	c.Yaw(math.DegToRad(-90))
	assert.True(t, c.Forward().Compare(math.NewVec3(1, 0, 0), 1e-5), "forward %+v", c.Forward())

	c.MoveForward(2)
	assert.True(t, c.GetPosition().Compare(math.NewVec3(2, 0, 0), 1e-5))

	c.Reset()
	assert.Equal(t, math.NewQuatIdentity(), c.Rotation)
}
