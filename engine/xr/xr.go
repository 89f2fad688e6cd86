// Package xr describes what the synchronizer needs from an XR runtime: the set
// of detected meshes reported each frame and pose lookups for meshes and the
// viewer. Implementations wrap the platform mesh-detection feed.
package xr

import "github.com/spaghettifunk/anima-xr/engine/math"

// SemanticLabel is the platform classification of a detected surface.
type SemanticLabel string

const (
	LabelNone    SemanticLabel = ""
	LabelFloor   SemanticLabel = "floor"
	LabelCeiling SemanticLabel = "ceiling"
	LabelWall    SemanticLabel = "wall"
	LabelTable   SemanticLabel = "table"
	LabelCouch   SemanticLabel = "couch"
	LabelDoor    SemanticLabel = "door"
	LabelWindow  SemanticLabel = "window"
	LabelShelf   SemanticLabel = "shelf"
	LabelScreen  SemanticLabel = "screen"
	LabelOther   SemanticLabel = "other"
)

var knownLabels = map[SemanticLabel]struct{}{
	LabelFloor: {}, LabelCeiling: {}, LabelWall: {}, LabelTable: {}, LabelCouch: {},
	LabelDoor: {}, LabelWindow: {}, LabelShelf: {}, LabelScreen: {}, LabelOther: {},
}

// ParseSemanticLabel returns the label for s, or LabelNone for anything
// outside the closed set.
func ParseSemanticLabel(s string) SemanticLabel {
	if _, ok := knownLabels[SemanticLabel(s)]; ok {
		return SemanticLabel(s)
	}
	return LabelNone
}

// Labels lists every known label.
func Labels() []SemanticLabel {
	return []SemanticLabel{
		LabelFloor, LabelCeiling, LabelWall, LabelTable, LabelCouch,
		LabelDoor, LabelWindow, LabelShelf, LabelScreen, LabelOther,
	}
}

// SensorMesh is a handle to one detected real-world mesh. Handles are compared
// by identity and used as map keys, so implementations must be comparable;
// pointer types are the expected choice.
type SensorMesh interface {
	SemanticLabel() SemanticLabel
	// Vertices is a flat x,y,z buffer in the mesh's own space.
	Vertices() []float32
	Indices() []uint32
	// LastChangedTime is the frame time (ms) the vertex data last changed.
	LastChangedTime() float64
}

// ReferenceSpace identifies the coordinate frame poses are expressed in.
type ReferenceSpace string

const (
	ReferenceSpaceLocal      ReferenceSpace = "local"
	ReferenceSpaceLocalFloor ReferenceSpace = "local-floor"
	ReferenceSpaceUnbounded  ReferenceSpace = "unbounded"
)

// Pose is a rigid transform in a reference space.
type Pose struct {
	Position    math.Vec3
	Orientation math.Quaternion
}

// IdentityPose is the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: math.NewQuatIdentity()}
}

// Frame is the per-frame view of the runtime.
type Frame interface {
	// DetectedMeshes is the complete set currently reported by the feed.
	DetectedMeshes() []SensorMesh
	// ReferenceSpace returns false while no reference space is available.
	ReferenceSpace() (ReferenceSpace, bool)
	ViewerPose(space ReferenceSpace) (Pose, bool)
	MeshPose(mesh SensorMesh, space ReferenceSpace) (Pose, bool)
}
