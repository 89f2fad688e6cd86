package engine

import (
	"github.com/spaghettifunk/anima-xr/engine/core"
)

type ApplicationConfig struct {
	// The application name used in logs.
	Name     string
	LogLevel core.LogLevel
	// Path of the TOML settings file. Empty disables hot reload.
	ConfigPath string
}
