package systems

import (
	"fmt"
	gomath "math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/physics"
	"github.com/spaghettifunk/anima-xr/engine/renderer/components"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

// Distances below this are treated as the viewer standing on the mesh origin,
// where the direction test is undefined and skipped.
const visibilityEpsilon float32 = 1e-4

/** @brief Tunables of the mesh detection system. */
type MeshDetectionConfig struct {
	/** @brief Minimum time between two reconciliation passes, in milliseconds. */
	UpdateIntervalMs float64 `toml:"update_interval_ms"`

	/** @brief Meshes further than this from the viewer are culled, in meters. */
	MaxViewDistance float32 `toml:"max_view_distance"`

	/**
	 * @brief Minimum cosine between the viewer forward vector and the
	 * direction to a mesh. 0.25 is roughly a 75 degree half angle.
	 */
	ForwardConeCosine float32 `toml:"forward_cone_cosine"`

	/** @brief Upper bound of meshes created in one pass. 0 means unbounded. */
	MaxMeshesPerTick int `toml:"max_meshes_per_tick"`

	// Declared for parity with the runtime settings; not enforced.
	MaxMeshCount      int     `toml:"max_mesh_count"`
	CleanupIntervalMs float64 `toml:"cleanup_interval_ms"`
}

func DefaultMeshDetectionConfig() MeshDetectionConfig {
	return MeshDetectionConfig{
		UpdateIntervalMs:  1000,
		MaxViewDistance:   3.0,
		ForwardConeCosine: 0.25,
		MaxMeshesPerTick:  0,
		MaxMeshCount:      50,
		CleanupIntervalMs: 5000,
	}
}

// Validate rejects values the synchronizer cannot work with.
func (c MeshDetectionConfig) Validate() error {
	switch {
	case gomath.IsNaN(c.UpdateIntervalMs) || c.UpdateIntervalMs < 0:
		return fmt.Errorf("mesh detection - update_interval_ms must be >= 0, got %v: %w", c.UpdateIntervalMs, core.ErrInvalidConfig)
	case gomath.IsNaN(float64(c.MaxViewDistance)) || c.MaxViewDistance <= 0:
		return fmt.Errorf("mesh detection - max_view_distance must be > 0, got %v: %w", c.MaxViewDistance, core.ErrInvalidConfig)
	case gomath.IsNaN(float64(c.ForwardConeCosine)):
		return fmt.Errorf("mesh detection - forward_cone_cosine is NaN: %w", core.ErrInvalidConfig)
	case c.MaxMeshesPerTick < 0:
		return fmt.Errorf("mesh detection - max_meshes_per_tick must be >= 0, got %d: %w", c.MaxMeshesPerTick, core.ErrInvalidConfig)
	case c.MaxMeshCount < 0:
		return fmt.Errorf("mesh detection - max_mesh_count must be >= 0, got %d: %w", c.MaxMeshCount, core.ErrInvalidConfig)
	case c.CleanupIntervalMs < 0:
		return fmt.Errorf("mesh detection - cleanup_interval_ms must be >= 0, got %v: %w", c.CleanupIntervalMs, core.ErrInvalidConfig)
	}
	return nil
}

/**
 * @brief Keeps one synced mesh per visible detected mesh. The sensor to mesh
 * mapping is a bijection, mutated only by createMesh and removeMesh.
 */
type MeshDetectionSystem struct {
	config MeshDetectionConfig

	geometrySystem *GeometrySystem
	materialSystem *MaterialSystem
	scene          *Scene
	events         *core.EventBus

	sensorToMesh map[xr.SensorMesh]*metadata.Mesh
	meshToSensor map[*metadata.Mesh]xr.SensorMesh
	lastSyncTime float64

	viewer  *components.Camera
	ids     *core.IdentifierPool
	metrics *core.SyncMetrics

	registrar PhysicsRegistrar
	world     *physics.World
}

/**
 * @brief Creates the mesh detection system.
 *
 * @param config The tunables; validated here.
 * @param gs Geometry system the synced geometries are acquired from.
 * @param ms Material system used to pick a material per label.
 * @param scene The scene synced meshes are attached to.
 * @param events Optional event bus for lifecycle notifications.
 */
func NewMeshDetectionSystem(config MeshDetectionConfig, gs *GeometrySystem, ms *MaterialSystem, scene *Scene, events *core.EventBus) (*MeshDetectionSystem, error) {
	if gs == nil || ms == nil || scene == nil {
		err := fmt.Errorf("func NewMeshDetectionSystem - geometry, material and scene are required: %w", core.ErrSystemNotAvailable)
		core.LogError(err.Error())
		return nil, err
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	config.ForwardConeCosine = math.Clamp(config.ForwardConeCosine, -1, 1)

	capacity := config.MaxMeshCount
	if capacity == 0 {
		capacity = 16
	}
	return &MeshDetectionSystem{
		config:         config,
		geometrySystem: gs,
		materialSystem: ms,
		scene:          scene,
		events:         events,
		sensorToMesh:   make(map[xr.SensorMesh]*metadata.Mesh),
		meshToSensor:   make(map[*metadata.Mesh]xr.SensorMesh),
		viewer:         components.NewCamera(),
		ids:            core.NewIdentifierPool(capacity),
		metrics:        core.NewSyncMetrics(),
	}, nil
}

/**
 * @brief Reconciles the synced meshes with the feed of the given frame.
 *
 * @param currentTime Frame time in milliseconds.
 * @param frame The current XR frame. A nil frame, or one without a reference
 * space, makes this a no-op.
 */
func (s *MeshDetectionSystem) Tick(currentTime float64, frame xr.Frame) {
	if frame == nil {
		s.metrics.TicksSkipped++
		return
	}
	space, ok := frame.ReferenceSpace()
	if !ok {
		s.metrics.TicksSkipped++
		return
	}
	if currentTime-s.lastSyncTime < s.config.UpdateIntervalMs {
		s.metrics.TicksThrottled++
		return
	}
	s.lastSyncTime = currentTime
	start := time.Now()

	detected := frame.DetectedMeshes()
	current := make(map[xr.SensorMesh]struct{}, len(detected))
	for _, sensor := range detected {
		if sensor != nil {
			current[sensor] = struct{}{}
		}
	}

	// Drop everything the feed stopped reporting.
	gone := make([]*metadata.Mesh, 0)
	for sensor, mesh := range s.sensorToMesh {
		if _, ok := current[sensor]; !ok {
			gone = append(gone, mesh)
		}
	}
	sortByID(gone)
	for _, mesh := range gone {
		s.removeMesh(s.meshToSensor[mesh], mesh, core.EVENT_CODE_MESH_REMOVED, currentTime)
		s.metrics.MeshesRemoved++
	}

	if pose, ok := frame.ViewerPose(space); ok {
		s.viewer.SetPose(pose.Position, pose.Orientation)
	} else {
		s.viewer.Reset()
	}
	viewerPos := s.viewer.GetPosition()
	forward := s.viewer.Forward()

	created := 0
	seen := make(map[xr.SensorMesh]struct{}, len(current))
	for _, sensor := range detected {
		if sensor == nil {
			continue
		}
		if _, dup := seen[sensor]; dup {
			continue
		}
		seen[sensor] = struct{}{}

		pose, hasPose := frame.MeshPose(sensor, space)
		visible := !hasPose || s.isVisible(pose.Position, viewerPos, forward)
		mesh, mapped := s.sensorToMesh[sensor]

		switch {
		case !visible && mapped:
			s.removeMesh(sensor, mesh, core.EVENT_CODE_MESH_CULLED, currentTime)
			s.metrics.MeshesCulled++
		case !visible:
			// not tracked, nothing to cull
		case mapped:
			s.updateMesh(sensor, mesh, pose, hasPose)
		default:
			if s.config.MaxMeshesPerTick > 0 && created >= s.config.MaxMeshesPerTick {
				s.metrics.MeshesDeferred++
				continue
			}
			if _, err := s.createMesh(sensor, pose, hasPose, currentTime); err == nil {
				created++
			}
		}
	}

	s.metrics.RecordTick(float64(time.Since(start).Microseconds()) / 1000.0)
}

// isVisible applies the distance cut and then the forward cone test.
func (s *MeshDetectionSystem) isVisible(meshPos, viewerPos, forward math.Vec3) bool {
	toMesh := meshPos.Sub(viewerPos)
	dist := toMesh.Length()
	if dist > s.config.MaxViewDistance {
		return false
	}
	if dist > visibilityEpsilon {
		if toMesh.MulScalar(1/dist).Dot(forward) < s.config.ForwardConeCosine {
			return false
		}
	}
	return true
}

func (s *MeshDetectionSystem) createMesh(sensor xr.SensorMesh, pose xr.Pose, hasPose bool, currentTime float64) (*metadata.Mesh, error) {
	label := sensor.SemanticLabel()
	name := fmt.Sprintf("mesh-%s", uuid.NewString())

	config, err := s.geometrySystem.GenerateFromVertexData(name, sensor.Vertices(), sensor.Indices(), s.materialSystem.SelectForLabel(label))
	if err != nil {
		core.LogWarn("mesh detection - skipping %s mesh: %s", labelOrNone(label), err.Error())
		return nil, err
	}
	geometry, err := s.geometrySystem.AcquireFromConfig(config, true)
	s.geometrySystem.ConfigDispose(config)
	if err != nil {
		return nil, err
	}

	if !hasPose {
		pose = xr.IdentityPose()
	}
	mesh := &metadata.Mesh{
		Name:      name,
		Label:     string(label),
		Geometry:  geometry,
		Transform: math.TransformFromPositionRotation(pose.Position, pose.Orientation.Normalize()),
		Visible:   geometry.Material != nil && !geometry.Material.Invisible,
	}
	mesh.UniqueID = s.ids.AcquireNewID(mesh)

	s.sensorToMesh[sensor] = mesh
	s.meshToSensor[mesh] = sensor

	if err := s.scene.Attach(mesh); err != nil {
		core.LogError("mesh detection - %s", err.Error())
	}
	if s.registrar != nil {
		s.registerPhysics(mesh)
	}

	s.metrics.MeshesCreated++
	core.LogDebug("mesh detection - created '%s' (%s) with material '%s'", name, labelOrNone(label), config.MaterialName)
	s.events.Fire(core.EVENT_CODE_MESH_ADDED, s, meshEvent(mesh, currentTime))
	return mesh, nil
}

// updateMesh refreshes vertex data and pose. The mesh generation only moves
// when the new vertex data was accepted.
func (s *MeshDetectionSystem) updateMesh(sensor xr.SensorMesh, mesh *metadata.Mesh, pose xr.Pose, hasPose bool) {
	materialName := s.materialSystem.GetDefault().Name
	if mesh.Geometry.Material != nil {
		materialName = mesh.Geometry.Material.Name
	}

	updated := false
	config, err := s.geometrySystem.GenerateFromVertexData(mesh.Name, sensor.Vertices(), sensor.Indices(), materialName)
	if err != nil {
		core.LogWarn("mesh detection - keeping previous geometry of '%s': %s", mesh.Name, err.Error())
	} else {
		if err := s.geometrySystem.Update(mesh.Geometry, config); err != nil {
			core.LogWarn("mesh detection - geometry update of '%s' failed: %s", mesh.Name, err.Error())
		} else {
			updated = true
		}
		s.geometrySystem.ConfigDispose(config)
	}

	if hasPose {
		mesh.Transform.SetPositionRotation(pose.Position, pose.Orientation.Normalize())
	}
	if updated {
		mesh.Generation++
		s.metrics.MeshesUpdated++
	}
	if s.registrar != nil && (updated || hasPose) {
		s.registerPhysics(mesh)
	}
}

// removeMesh is the only path that shrinks the mapping. A zero code fires no event.
func (s *MeshDetectionSystem) removeMesh(sensor xr.SensorMesh, mesh *metadata.Mesh, code core.SystemEventCode, currentTime float64) {
	evt := meshEvent(mesh, currentTime)

	delete(s.sensorToMesh, sensor)
	delete(s.meshToSensor, mesh)

	s.scene.Detach(mesh)
	if s.registrar != nil {
		s.registrar.UnregisterMesh(mesh, s.world)
	}
	s.geometrySystem.Release(mesh.Geometry)
	if err := s.ids.ReleaseID(mesh.UniqueID); err != nil {
		core.LogWarn("mesh detection - %s", err.Error())
	}

	core.LogDebug("mesh detection - removed '%s' (%s)", mesh.Name, labelOrNone(xr.SemanticLabel(mesh.Label)))
	if code != 0 {
		s.events.Fire(code, s, evt)
	}
}

func (s *MeshDetectionSystem) registerPhysics(mesh *metadata.Mesh) bool {
	if err := s.registrar.RegisterMesh(mesh, s.world); err != nil {
		core.LogError("mesh detection - physics registration of '%s' failed: %s", mesh.Name, err.Error())
		return false
	}
	return true
}

/**
 * @brief Attaches a physics registrar. Every mesh already mapped is
 * registered immediately, and every mesh created later as it appears.
 * A previously attached registrar is detached first.
 */
func (s *MeshDetectionSystem) AttachPhysics(registrar PhysicsRegistrar, world *physics.World) error {
	if registrar == nil || world == nil {
		err := fmt.Errorf("func AttachPhysics - registrar and world are required: %w", core.ErrSystemNotAvailable)
		core.LogError(err.Error())
		return err
	}
	if s.registrar != nil {
		s.DetachPhysics()
	}
	s.registrar = registrar
	s.world = world

	registered := 0
	for _, mesh := range s.Meshes() {
		if s.registerPhysics(mesh) {
			registered++
		}
	}
	core.LogInfo("mesh detection - physics attached, %d existing meshes registered", registered)
	s.events.Fire(core.EVENT_CODE_PHYSICS_ATTACHED, s, registered)
	return nil
}

// DetachPhysics unregisters every synced mesh and forgets the registrar.
func (s *MeshDetectionSystem) DetachPhysics() {
	if s.registrar == nil {
		return
	}
	for _, mesh := range s.Meshes() {
		s.registrar.UnregisterMesh(mesh, s.world)
	}
	s.registrar = nil
	s.world = nil
}

// PhysicsAttached reports whether a registrar is bound.
func (s *MeshDetectionSystem) PhysicsAttached() bool {
	return s.registrar != nil
}

// MeshFor returns the synced mesh of sensor, if any.
func (s *MeshDetectionSystem) MeshFor(sensor xr.SensorMesh) (*metadata.Mesh, bool) {
	m, ok := s.sensorToMesh[sensor]
	return m, ok
}

// SensorFor returns the sensor mesh a synced mesh mirrors.
func (s *MeshDetectionSystem) SensorFor(mesh *metadata.Mesh) (xr.SensorMesh, bool) {
	sm, ok := s.meshToSensor[mesh]
	return sm, ok
}

func (s *MeshDetectionSystem) Count() int {
	return len(s.sensorToMesh)
}

// Meshes returns the synced meshes ordered by id.
func (s *MeshDetectionSystem) Meshes() []*metadata.Mesh {
	out := make([]*metadata.Mesh, 0, len(s.meshToSensor))
	for m := range s.meshToSensor {
		out = append(out, m)
	}
	sortByID(out)
	return out
}

func (s *MeshDetectionSystem) LastSyncTime() float64 {
	return s.lastSyncTime
}

func (s *MeshDetectionSystem) Metrics() core.SyncMetrics {
	return s.metrics.Snapshot()
}

func (s *MeshDetectionSystem) Config() MeshDetectionConfig {
	return s.config
}

// Viewer is the pose used by the last reconciliation pass.
func (s *MeshDetectionSystem) Viewer() *components.Camera {
	return s.viewer
}

// SetConfig swaps the tunables. The throttle keeps its last sync time.
func (s *MeshDetectionSystem) SetConfig(config MeshDetectionConfig) error {
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return err
	}
	config.ForwardConeCosine = math.Clamp(config.ForwardConeCosine, -1, 1)
	s.config = config
	return nil
}

/**
 * @brief Tears down every synced mesh. No lifecycle events are fired.
 */
func (s *MeshDetectionSystem) Shutdown() error {
	for _, mesh := range s.Meshes() {
		s.removeMesh(s.meshToSensor[mesh], mesh, 0, s.lastSyncTime)
	}
	s.registrar = nil
	s.world = nil
	return nil
}

func meshEvent(mesh *metadata.Mesh, t float64) *core.MeshEvent {
	return &core.MeshEvent{
		MeshID: mesh.UniqueID,
		Name:   mesh.Name,
		Label:  mesh.Label,
		Time:   t,
	}
}

func labelOrNone(label xr.SemanticLabel) string {
	if label == xr.LabelNone {
		return "unlabelled"
	}
	return string(label)
}

func sortByID(meshes []*metadata.Mesh) {
	sort.Slice(meshes, func(i, j int) bool { return meshes[i].UniqueID < meshes[j].UniqueID })
}
