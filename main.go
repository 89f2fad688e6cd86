/*
Runs the mesh detection testbed against a simulated XR session until
interrupted.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-xr/engine"
	"github.com/spaghettifunk/anima-xr/engine/config"
	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/testbed"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path of the TOML settings file")
	writeDefault := flag.Bool("write-default-config", false, "write the default settings to -config and exit")
	flag.Parse()

	if *writeDefault {
		if err := config.Save(config.Default(), *configPath); err != nil {
			core.LogFatal(err.Error())
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}

	tb := testbed.NewTestGame(*configPath)

	engine, err := engine.New(tb.Game, cfg)
	if err != nil {
		panic(err)
	}

	if err := engine.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		engine.Stop()
	}()

	// run engine
	runErr := engine.Run()
	if err := engine.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		panic(runErr)
	}
}
