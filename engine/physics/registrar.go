package physics

import (
	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
)

// StaticMeshRegistrar turns synced meshes into static bodies.
type StaticMeshRegistrar struct{}

func NewStaticMeshRegistrar() *StaticMeshRegistrar {
	return &StaticMeshRegistrar{}
}

// RegisterMesh adds a body for mesh, or rebuilds it if the mesh is already known.
func (r *StaticMeshRegistrar) RegisterMesh(mesh *metadata.Mesh, world *World) error {
	if mesh == nil {
		return core.ErrNilMesh
	}
	if mesh.Geometry == nil {
		return core.ErrNilGeometry
	}

	body := buildBody(mesh)
	if _, ok := world.Body(mesh.UniqueID); ok {
		return world.Replace(body)
	}
	if err := world.Add(body); err != nil {
		return err
	}
	core.LogDebug("registered static body for mesh '%s' (%s)", mesh.Name, mesh.Label)
	return nil
}

// UnregisterMesh drops the body of mesh, if any.
func (r *StaticMeshRegistrar) UnregisterMesh(mesh *metadata.Mesh, world *World) {
	if mesh == nil {
		return
	}
	if world.Remove(mesh.UniqueID) {
		core.LogDebug("unregistered static body for mesh '%s'", mesh.Name)
	}
}

func buildBody(mesh *metadata.Mesh) *StaticBody {
	worldMatrix := mesh.Transform.GetWorld()
	g := mesh.Geometry

	tris := make([]math.Vec3, 0, len(g.Indices))
	count := uint32(len(g.Vertices))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		i0, i1, i2 := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if i0 >= count || i1 >= count || i2 >= count {
			continue
		}
		tris = append(tris,
			g.Vertices[i0].Position.Transform(worldMatrix),
			g.Vertices[i1].Position.Transform(worldMatrix),
			g.Vertices[i2].Position.Transform(worldMatrix),
		)
	}

	return &StaticBody{
		MeshID:    mesh.UniqueID,
		Name:      mesh.Name,
		Label:     mesh.Label,
		Bounds:    mesh.WorldExtents(),
		Triangles: tris,
	}
}
