//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Run mg.Namespace

// Runs the testbed against the simulated XR session.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	return sh.RunV("go", "run", ".", "-config", configPath())
}

// Writes the default settings file next to the module.
func (Run) DefaultConfig() error {
	return goCmd("run", ".", "-config", configPath(), "-write-default-config")
}

func configPath() string {
	if p := os.Getenv("ANIMA_CONFIG"); p != "" {
		return p
	}
	return "anima.toml"
}
