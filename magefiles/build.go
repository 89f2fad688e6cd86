//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs the unit tests of every package.
func (Build) Test() error {
	fmt.Println("Testing...")
	return goCmd("test", "-race", "./...")
}

// Runs go vet over the module.
func (Build) Vet() error {
	return goCmd("vet", "./...")
}

// Vets, tests and then builds the testbed binary.
func (Build) All() error {
	mg.SerialDeps(Build.Vet, Build.Test)
	return goCmd("build", "-o", "bin/anima-xr", ".")
}
