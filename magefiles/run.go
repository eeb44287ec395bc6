//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Validates the shaders and runs the sandbox with rx.toml.
func (Run) Engine() error {
	if err := validateShaders(); err != nil {
		return err
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "rx.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
