// Package sim is an in-memory XR runtime: a set of labelled surfaces and a
// scripted viewer. It stands in for the platform mesh-detection feed in the
// testbed and in tests.
package sim

import (
	"slices"

	"github.com/spaghettifunk/anima-xr/engine/renderer/components"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

// Session holds the simulated world state. It is not safe for concurrent use.
type Session struct {
	space    xr.ReferenceSpace
	hasSpace bool
	viewer   *components.Camera
	meshes   []*Mesh

	// YawSpeed turns the viewer around world up, radians per second.
	YawSpeed float32
	// WalkSpeed moves the viewer along its forward direction, metres per second.
	WalkSpeed float32
}

func NewSession(space xr.ReferenceSpace) *Session {
	return &Session{
		space:    space,
		hasSpace: space != "",
		viewer:   components.NewCamera(),
	}
}

// Add reports m in subsequent frames. Adding twice is a no-op.
func (s *Session) Add(meshes ...*Mesh) {
	for _, m := range meshes {
		if !slices.Contains(s.meshes, m) {
			s.meshes = append(s.meshes, m)
		}
	}
}

// Remove stops reporting m.
func (s *Session) Remove(m *Mesh) {
	s.meshes = slices.DeleteFunc(s.meshes, func(o *Mesh) bool { return o == m })
}

func (s *Session) Meshes() []*Mesh {
	return slices.Clone(s.meshes)
}

func (s *Session) SetViewerPose(p xr.Pose) {
	if s.viewer == nil {
		s.viewer = components.NewCamera()
	}
	s.viewer.SetPose(p.Position, p.Orientation)
}

// ClearViewerPose simulates tracking loss.
func (s *Session) ClearViewerPose() {
	s.viewer = nil
}

// SetReferenceSpace sets the space; an empty value makes it unavailable.
func (s *Session) SetReferenceSpace(space xr.ReferenceSpace) {
	s.space = space
	s.hasSpace = space != ""
}

// Step advances the scripted viewer motion by dtMs milliseconds.
func (s *Session) Step(dtMs float64) {
	if s.viewer == nil {
		return
	}
	dt := float32(dtMs / 1000.0)
	if s.YawSpeed != 0 {
		s.viewer.Yaw(s.YawSpeed * dt)
	}
	if s.WalkSpeed != 0 {
		s.viewer.MoveForward(s.WalkSpeed * dt)
	}
}

// Frame snapshots the current state.
func (s *Session) Frame() *Frame {
	f := &Frame{
		space:    s.space,
		hasSpace: s.hasSpace,
		meshes:   make([]xr.SensorMesh, 0, len(s.meshes)),
		poses:    make(map[*Mesh]xr.Pose, len(s.meshes)),
	}
	if s.viewer != nil {
		f.viewer = &xr.Pose{Position: s.viewer.Position, Orientation: s.viewer.Rotation}
	}
	for _, m := range s.meshes {
		f.meshes = append(f.meshes, m)
		if p, ok := m.Pose(); ok {
			f.poses[m] = p
		}
	}
	return f
}

// Frame is an immutable snapshot implementing xr.Frame.
type Frame struct {
	space    xr.ReferenceSpace
	hasSpace bool
	viewer   *xr.Pose
	meshes   []xr.SensorMesh
	poses    map[*Mesh]xr.Pose
}

var _ xr.Frame = (*Frame)(nil)

func (f *Frame) DetectedMeshes() []xr.SensorMesh {
	return f.meshes
}

func (f *Frame) ReferenceSpace() (xr.ReferenceSpace, bool) {
	return f.space, f.hasSpace
}

func (f *Frame) ViewerPose(space xr.ReferenceSpace) (xr.Pose, bool) {
	if f.viewer == nil || space != f.space {
		return xr.Pose{}, false
	}
	return *f.viewer, true
}

func (f *Frame) MeshPose(mesh xr.SensorMesh, space xr.ReferenceSpace) (xr.Pose, bool) {
	m, ok := mesh.(*Mesh)
	if !ok || space != f.space {
		return xr.Pose{}, false
	}
	p, ok := f.poses[m]
	return p, ok
}
