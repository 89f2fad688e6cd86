package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/anima-xr/engine/config"
	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *config.Config
	watcher       *config.Watcher
	systemManager *systems.SystemManager
	clock         *core.Clock
	lastTime      float64

	// physics is attached late, once the loop has run for AttachAfterMs
	physicsPending bool
	lastReported   uint64

	quit     chan struct{}
	quitOnce sync.Once
}

// Slots the geometry registry starts with. It grows on demand.
const initialGeometrySlots = 256

func New(g *Game, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(cfg.LogLevel())

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		MaxGeometryCount: initialGeometrySlots,
		Materials:        cfg.Materials,
		MeshDetection:    cfg.MeshDetection,
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        cfg,
		systemManager: sm,
		clock:         core.NewClock(),
		quit:          make(chan struct{}),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	e.systemManager.EventBus.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if path := e.gameInstance.ApplicationConfig.ConfigPath; path != "" {
		w, err := config.NewWatcher(path)
		if err != nil {
			core.LogWarn("config hot reload disabled: %s", err.Error())
		} else {
			e.watcher = w
		}
	}

	if e.config.Physics.Enabled {
		if e.config.Physics.AttachAfterMs == 0 {
			if err := e.systemManager.EnablePhysics(e.config.Physics.WorldConfig()); err != nil {
				return err
			}
		} else {
			e.physicsPending = true
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until Stop is called or the game fails.
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	ticker := time.NewTicker(time.Second / time.Duration(e.config.Application.TargetFrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-e.quit:
			return nil
		case cfg, ok := <-e.updates():
			if ok {
				e.applyConfig(cfg)
			}
		case <-ticker.C:
			// Update clock and get delta time.
			e.clock.Update()
			currentTime := e.clock.Elapsed()
			delta := currentTime - e.lastTime

			if err := e.frame(currentTime*1000.0, delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err.Error())
				return err
			}
			e.lastTime = currentTime
		}
	}
}

// frame runs one loop iteration; currentTimeMs is the time since Run started.
func (e *Engine) frame(currentTimeMs float64, delta float64) error {
	if e.physicsPending && currentTimeMs >= e.config.Physics.AttachAfterMs {
		e.physicsPending = false
		if err := e.systemManager.EnablePhysics(e.config.Physics.WorldConfig()); err != nil {
			core.LogError("physics attach failed: %s", err.Error())
		}
	}

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return err
		}
	}

	if e.gameInstance.FnFrame != nil {
		e.systemManager.MeshDetectionSystem.Tick(currentTimeMs, e.gameInstance.FnFrame())
	}

	if m := e.systemManager.MeshDetectionSystem.Metrics(); m.TicksRun != e.lastReported {
		e.lastReported = m.TicksRun
		core.LogDebug("mesh sync: %d meshes (%d in scene, %d visible), avg pass %.3fms",
			e.systemManager.MeshDetectionSystem.Count(), e.systemManager.Scene.Len(),
			e.systemManager.Scene.VisibleCount(), m.AverageTickMs())
	}
	return nil
}

func (e *Engine) updates() <-chan *config.Config {
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Updates()
}

// applyConfig swaps in a reloaded config between two frames.
func (e *Engine) applyConfig(cfg *config.Config) {
	core.SetLogLevel(cfg.LogLevel())

	if err := e.systemManager.MeshDetectionSystem.SetConfig(cfg.MeshDetection); err != nil {
		core.LogWarn("keeping previous mesh detection settings: %s", err.Error())
		return
	}
	if err := e.systemManager.MaterialSystem.Reconfigure(cfg.Materials); err != nil {
		core.LogWarn("keeping previous material settings: %s", err.Error())
	}

	switch {
	case cfg.Physics.Enabled && e.systemManager.PhysicsWorld == nil && !e.physicsPending:
		if err := e.systemManager.EnablePhysics(cfg.Physics.WorldConfig()); err != nil {
			core.LogError("physics attach failed: %s", err.Error())
		}
	case !cfg.Physics.Enabled:
		e.physicsPending = false
		e.systemManager.DisablePhysics()
	}

	e.config = cfg
	core.LogInfo("config reloaded")
	e.systemManager.EventBus.Fire(core.EVENT_CODE_CONFIG_RELOADED, e, cfg)
}

// Stop makes Run return after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.quitOnce.Do(func() { close(e.quit) })
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.Stop()

	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn(err.Error())
		}
	}
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			return err
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return fmt.Errorf("system shutdown: %w", err)
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.Stop()
		return true
	}
	return false
}
