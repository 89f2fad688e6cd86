package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
)

/** @brief The geometry system configuration. */
type GeometrySystemConfig struct {
	/**
	 * @brief The number of geometry slots allocated up front. The registry
	 * grows past this when every slot is taken. One geometry is used per
	 * synced mesh.
	 */
	MaxGeometryCount uint32
}

type GeometrySystem struct {
	Config         *GeometrySystemConfig
	materialSystem *MaterialSystem
	// Array of registered geometries, indexed by geometry id.
	RegisteredGeometries []*metadata.GeometryReference
}

/**
 * @brief Initializes the geometry system.
 *
 * @param config The configuration for this system.
 * @param ms The material system geometries acquire their material from.
 */
func NewGeometrySystem(config *GeometrySystemConfig, ms *MaterialSystem) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0: %w", core.ErrInvalidConfig)
		core.LogError(err.Error())
		return nil, err
	}

	gs := &GeometrySystem{
		Config:               config,
		materialSystem:       ms,
		RegisteredGeometries: make([]*metadata.GeometryReference, config.MaxGeometryCount),
	}

	// Invalidate all geometries in the array.
	for i := uint32(0); i < config.MaxGeometryCount; i++ {
		gs.RegisteredGeometries[i] = &metadata.GeometryReference{
			Geometry: &metadata.Geometry{
				ID:         metadata.InvalidID,
				Generation: metadata.InvalidIDUint16,
			},
		}
	}
	return gs, nil
}

/**
 * @brief Shuts down the geometry system, destroying every live geometry.
 */
func (gs *GeometrySystem) Shutdown() error {
	for _, ref := range gs.RegisteredGeometries {
		if ref.Geometry.ID != metadata.InvalidID {
			gs.destroyGeometry(ref.Geometry)
			ref.ReferenceCount = 0
			ref.AutoRelease = false
		}
	}
	return nil
}

/**
 * @brief Builds a geometry config from a flat xyz position buffer as reported
 * by the mesh-detection feed. Normals, centre and extents are derived here.
 */
func (gs *GeometrySystem) GenerateFromVertexData(name string, positions []float32, indices []uint32, materialName string) (*metadata.GeometryConfig, error) {
	vertices, err := math.VerticesFromPositions(positions)
	if err != nil {
		return nil, fmt.Errorf("geometry '%s': %w", name, core.ErrMalformedVertices)
	}
	idx := make([]uint32, len(indices))
	copy(idx, indices)

	math.GeometryGenerateNormals(vertices, idx)
	extents, center := math.GeometryExtents(vertices)

	config := &metadata.GeometryConfig{
		Vertices:     vertices,
		Indices:      idx,
		Center:       center,
		Extents:      extents,
		Name:         name,
		MaterialName: materialName,
	}
	if len(config.Name) == 0 {
		config.Name = metadata.DefaultGeometryName
	}
	if len(config.MaterialName) == 0 {
		config.MaterialName = metadata.InvisibleMaterialName
	}
	return config, nil
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig, autoRelease bool) (*metadata.Geometry, error) {
	if config == nil {
		return nil, core.ErrNilGeometry
	}

	var ref *metadata.GeometryReference
	length := uint32(len(gs.RegisteredGeometries))
	for i := uint32(0); i < length; i++ {
		if gs.RegisteredGeometries[i].Geometry.ID == metadata.InvalidID {
			// Found empty slot.
			ref = gs.RegisteredGeometries[i]
			ref.Geometry.ID = i
			break
		}
	}

	// No free slot, so the new id is the old length.
	if ref == nil {
		ref = &metadata.GeometryReference{
			Geometry: &metadata.Geometry{ID: length},
		}
		gs.RegisteredGeometries = append(gs.RegisteredGeometries, ref)
		core.LogDebug("geometry registry grown to %d slots", len(gs.RegisteredGeometries))
	}
	ref.AutoRelease = autoRelease
	ref.ReferenceCount = 1

	gs.createGeometry(config, ref.Geometry)
	return ref.Geometry, nil
}

/**
 * @brief Replaces the vertex data of a live geometry, keeping its id and material.
 */
func (gs *GeometrySystem) Update(geometry *metadata.Geometry, config *metadata.GeometryConfig) error {
	if geometry == nil || geometry.ID == metadata.InvalidID {
		return core.ErrNilGeometry
	}
	geometry.Vertices = config.Vertices
	geometry.Indices = config.Indices
	geometry.Center = config.Center
	geometry.Extents = config.Extents
	geometry.Generation++
	return nil
}

/**
 * @brief Frees resources held by the provided configuration.
 */
func (gs *GeometrySystem) ConfigDispose(config *metadata.GeometryConfig) {
	if config == nil {
		return
	}
	config.Vertices = nil
	config.Indices = nil
}

/**
 * @brief Releases a reference to the provided geometry.
 */
func (gs *GeometrySystem) Release(geometry *metadata.Geometry) {
	if geometry == nil || geometry.ID == metadata.InvalidID || geometry.ID >= uint32(len(gs.RegisteredGeometries)) {
		core.LogWarn("geometry release cannot release invalid geometry id. Nothing was done.")
		return
	}

	ref := gs.RegisteredGeometries[geometry.ID]
	if ref.Geometry != geometry {
		core.LogError("Geometry id mismatch. Check registration logic, as this should never occur.")
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount < 1 && ref.AutoRelease {
		gs.destroyGeometry(ref.Geometry)
		ref.ReferenceCount = 0
		ref.AutoRelease = false
	}
}

// LiveCount is the number of geometries currently held.
func (gs *GeometrySystem) LiveCount() int {
	n := 0
	for _, ref := range gs.RegisteredGeometries {
		if ref.Geometry.ID != metadata.InvalidID {
			n++
		}
	}
	return n
}

func (gs *GeometrySystem) createGeometry(config *metadata.GeometryConfig, geometry *metadata.Geometry) {
	geometry.Name = config.Name
	geometry.Generation = 0
	geometry.Vertices = config.Vertices
	geometry.Indices = config.Indices

	// Copy over extents, center, etc.
	geometry.Center = config.Center
	geometry.Extents = config.Extents

	// Acquire the material
	if gs.materialSystem != nil && len(config.MaterialName) > 0 {
		geometry.Material = gs.materialSystem.Acquire(config.MaterialName)
	}
}

func (gs *GeometrySystem) destroyGeometry(geometry *metadata.Geometry) {
	// Release the material.
	if gs.materialSystem != nil && geometry.Material != nil {
		gs.materialSystem.Release(geometry.Material.Name)
	}

	// A fresh value, so holders of the old pointer keep their data but no
	// longer match the registry slot.
	id := geometry.ID
	gs.RegisteredGeometries[id].Geometry = &metadata.Geometry{
		ID:         metadata.InvalidID,
		Generation: metadata.InvalidIDUint16,
	}
	geometry.ID = metadata.InvalidID
	geometry.Generation = metadata.InvalidIDUint16
	geometry.Material = nil
}
