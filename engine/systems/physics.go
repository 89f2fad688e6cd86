package systems

import (
	"github.com/spaghettifunk/anima-xr/engine/physics"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
)

// PhysicsRegistrar turns synced meshes into static colliders. It may be
// attached to the mesh detection system at any time.
type PhysicsRegistrar interface {
	RegisterMesh(mesh *metadata.Mesh, world *physics.World) error
	UnregisterMesh(mesh *metadata.Mesh, world *physics.World)
}

var _ PhysicsRegistrar = (*physics.StaticMeshRegistrar)(nil)
