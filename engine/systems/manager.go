package systems

import (
	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/physics"
)

type SystemManagerConfig struct {
	MaxGeometryCount uint32
	Materials        MaterialSystemConfig
	MeshDetection    MeshDetectionConfig
}

type SystemManager struct {
	EventBus            *core.EventBus
	MaterialSystem      *MaterialSystem
	GeometrySystem      *GeometrySystem
	Scene               *Scene
	MeshDetectionSystem *MeshDetectionSystem
	PhysicsWorld        *physics.World
}

func NewSystemManager(config SystemManagerConfig) (*SystemManager, error) {
	eb := core.NewEventBus()

	ms, err := NewMaterialSystem(config.Materials)
	if err != nil {
		return nil, err
	}
	maxGeometries := config.MaxGeometryCount
	if maxGeometries == 0 {
		maxGeometries = 1000
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: maxGeometries,
	}, ms)
	if err != nil {
		return nil, err
	}
	scene := NewScene()
	mds, err := NewMeshDetectionSystem(config.MeshDetection, gs, ms, scene, eb)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		EventBus:            eb,
		MaterialSystem:      ms,
		GeometrySystem:      gs,
		Scene:               scene,
		MeshDetectionSystem: mds,
	}, nil
}

// EnablePhysics creates the collider world and binds it to mesh detection.
// Meshes synced before this call are registered right away.
func (sm *SystemManager) EnablePhysics(config physics.WorldConfig) error {
	if sm.PhysicsWorld != nil {
		return nil
	}
	world, err := physics.NewWorld(config)
	if err != nil {
		return err
	}
	if err := sm.MeshDetectionSystem.AttachPhysics(physics.NewStaticMeshRegistrar(), world); err != nil {
		return err
	}
	sm.PhysicsWorld = world
	return nil
}

// DisablePhysics unbinds and drops the collider world.
func (sm *SystemManager) DisablePhysics() {
	if sm.PhysicsWorld == nil {
		return
	}
	sm.MeshDetectionSystem.DetachPhysics()
	sm.PhysicsWorld.Clear()
	sm.PhysicsWorld = nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.MeshDetectionSystem.Shutdown(); err != nil {
		return err
	}
	if sm.PhysicsWorld != nil {
		sm.PhysicsWorld.Clear()
	}
	if err := sm.Scene.Shutdown(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	return sm.EventBus.Shutdown()
}
