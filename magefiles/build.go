//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the testbed binary into bin/.
func (Build) Engine() error {
	if err := goTool(nil, "mod", "download"); err != nil {
		return err
	}
	return goTool(nil, "build", "-o", binary, ".")
}

type Test mg.Namespace

// Runs the unit tests of every package with the race detector.
func (Test) All() error {
	return goTool(raceEnv, "test", "-race", "./...")
}

// Runs the render batch and cache tests only.
func (Test) Systems() error {
	return goTool(raceEnv, "test", "-race", "./engine/systems/...", "./engine/renderer/...")
}
