package testbed

import (
	"fmt"

	"github.com/spaghettifunk/anima-xr/engine"
	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/xr"
	"github.com/spaghettifunk/anima-xr/engine/xr/sim"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	session *sim.Session
	room    []*sim.Mesh

	// the couch leaves and comes back to exercise removal
	couch        *sim.Mesh
	couchPresent bool
	sinceToggle  float64
}

// How long the couch stays in (or out of) the feed, in seconds.
const couchTogglePeriod = 7.0

func NewTestGame(configPath string) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:       "Anima XR Mesh Detection",
				LogLevel:   core.DebugLevel,
				ConfigPath: configPath,
			},
			State: &gameState{
				session: sim.NewSession(xr.ReferenceSpaceLocalFloor),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnFrame = tg.Frame
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}

	state := g.State.(*gameState)
	state.room = sim.NewRoom()
	state.session.Add(state.room...)
	// the viewer slowly looks around the room
	state.session.YawSpeed = 0.4

	for _, m := range state.room {
		if m.SemanticLabel() == xr.LabelCouch {
			state.couch = m
		}
	}
	state.couchPresent = true

	bus := g.SystemManager.EventBus
	bus.Register(core.EVENT_CODE_MESH_ADDED, g, g.onMeshEvent)
	bus.Register(core.EVENT_CODE_MESH_REMOVED, g, g.onMeshEvent)
	bus.Register(core.EVENT_CODE_MESH_CULLED, g, g.onMeshEvent)
	bus.Register(core.EVENT_CODE_PHYSICS_ATTACHED, g, g.onMeshEvent)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.session.Step(deltaTime * 1000.0)

	state.sinceToggle += deltaTime
	if state.couch != nil && state.sinceToggle >= couchTogglePeriod {
		state.sinceToggle = 0
		if state.couchPresent {
			state.session.Remove(state.couch)
		} else {
			state.session.Add(state.couch)
		}
		state.couchPresent = !state.couchPresent
	}
	return nil
}

func (g *TestGame) Frame() xr.Frame {
	return g.State.(*gameState).session.Frame()
}

func (g *TestGame) Shutdown() error {
	bus := g.SystemManager.EventBus
	for _, code := range []core.SystemEventCode{
		core.EVENT_CODE_MESH_ADDED,
		core.EVENT_CODE_MESH_REMOVED,
		core.EVENT_CODE_MESH_CULLED,
		core.EVENT_CODE_PHYSICS_ATTACHED,
	} {
		bus.Unregister(code, g)
	}
	return nil
}

func (g *TestGame) onMeshEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_MESH_ADDED:
		e := data.Data.(*core.MeshEvent)
		core.LogInfo("+ %s (%s)", e.Name, e.Label)
	case core.EVENT_CODE_MESH_REMOVED:
		e := data.Data.(*core.MeshEvent)
		core.LogInfo("- %s (%s) left the feed", e.Name, e.Label)
	case core.EVENT_CODE_MESH_CULLED:
		e := data.Data.(*core.MeshEvent)
		core.LogInfo("- %s (%s) out of view", e.Name, e.Label)
	case core.EVENT_CODE_PHYSICS_ATTACHED:
		core.LogInfo("physics attached, %d colliders backfilled", data.Data.(int))
	}
	return false
}
