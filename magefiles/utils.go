//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// binary is where Build.Engine puts the testbed.
const binary = "bin/anima-g3d"

// raceEnv enables cgo, which the race detector needs.
var raceEnv = map[string]string{"CGO_ENABLED": "1"}

// goTool runs the go command with env added to the environment and streams its output.
func goTool(env map[string]string, args ...string) error {
	fmt.Printf("Executing: go %s\n", strings.Join(args, " "))
	if err := sh.RunWithV(env, mg.GoCmd(), args...); err != nil {
		return fmt.Errorf("error executing go %s: %w", args[0], err)
	}
	return nil
}
