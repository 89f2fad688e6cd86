package engine

import (
	"github.com/spaghettifunk/anima-xr/engine/systems"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnFrame           Frame
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Frame returns the XR frame for the current loop iteration, or nil while
// the session has none.
type Frame func() xr.Frame
type Shutdown func() error
