package components

import (
	"github.com/spaghettifunk/anima-xr/engine/math"
)

/**
 * @brief Represents a viewer (head pose). The synchronizer keeps the copy
 * taken for the current frame in one; the simulated runtime drives its
 * scripted viewer through another.
 */
type Camera struct {
	/** @brief The world position of the viewer. */
	Position math.Vec3
	/** @brief The world orientation of the viewer. */
	Rotation math.Quaternion
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

// Reset puts the viewer at the origin looking down -Z.
func (c *Camera) Reset() {
	c.Position = math.NewVec3Zero()
	c.Rotation = math.NewQuatIdentity()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPose(position math.Vec3, rotation math.Quaternion) {
	c.Position = position
	c.Rotation = rotation
}

// Forward is the unit direction the viewer looks along.
func (c *Camera) Forward() math.Vec3 {
	return math.NewVec3Forward().Rotate(c.Rotation.Normalize()).Normalized()
}

func (c *Camera) MoveForward(amount float32) {
	c.Position = c.Position.Add(c.Forward().MulScalar(amount))
}

// Yaw turns the viewer around world up by amount radians.
func (c *Camera) Yaw(amount float32) {
	turn := math.NewQuatFromAxisAngle(math.NewVec3Up(), amount, true)
	c.Rotation = turn.Mul(c.Rotation).Normalize()
}
