package sim

import (
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

func at(x, y, z float32) xr.Pose {
	return xr.Pose{Position: math.NewVec3(x, y, z), Orientation: math.NewQuatIdentity()}
}

func upright(x, y, z, yawDeg float32) xr.Pose {
	// quads are built flat; stand them up facing the room centre
	stand := math.NewQuatFromAxisAngle(math.NewVec3(1, 0, 0), math.DegToRad(90), true)
	yaw := math.NewQuatFromAxisAngle(math.NewVec3Up(), math.DegToRad(yawDeg), true)
	return xr.Pose{Position: math.NewVec3(x, y, z), Orientation: yaw.Mul(stand).Normalize()}
}

// NewRoom returns a 4m x 4m x 2.5m room around the origin with some furniture.
// The viewer stands at the origin at head height 0, so the floor is at -1.6.
func NewRoom() []*Mesh {
	return []*Mesh{
		NewQuad(xr.LabelFloor, 4, 4, at(0, -1.6, 0)),
		NewQuad(xr.LabelCeiling, 4, 4, at(0, 0.9, 0)),
		NewQuad(xr.LabelWall, 4, 2.5, upright(0, -0.35, -2, 0)),
		NewQuad(xr.LabelWall, 4, 2.5, upright(0, -0.35, 2, 180)),
		NewQuad(xr.LabelWall, 4, 2.5, upright(-2, -0.35, 0, 90)),
		NewQuad(xr.LabelWall, 4, 2.5, upright(2, -0.35, 0, -90)),
		NewBox(xr.LabelTable, math.NewVec3(1.2, 0.75, 0.8), at(0, -1.225, -1)),
		NewBox(xr.LabelCouch, math.NewVec3(2, 0.8, 0.9), at(-1.4, -1.2, 1)),
		NewQuad(xr.LabelScreen, 1.2, 0.7, upright(1.9, -0.2, -0.8, -90)),
		NewBox(xr.LabelNone, math.NewVec3(0.3, 0.3, 0.3), at(1.5, -1.45, 1.5)),
	}
}
