//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Run mg.Namespace

// Runs the testbed in a window.
func (Run) Engine() error {
	fmt.Println("Run engine...")
	return goTool(nil, "run", ".")
}

// Runs the testbed for a few hundred frames without a window and logs the render metrics.
func (Run) Headless() error {
	mg.Deps(Build.Engine)
	return sh.RunV(binary, "-headless", "-frames", "300")
}
