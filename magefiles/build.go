//go:build mage

package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

const shadersDir = "assets/shaders"

type Build mg.Namespace

// Builds the engine binary into bin/.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "rx"), "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Validates the GLSL shaders with glslangValidator, when it is installed.
func (Build) Shaders() error {
	return validateShaders()
}

func validateShaders() error {
	if _, err := exec.LookPath("glslangValidator"); err != nil {
		fmt.Println("glslangValidator not found, skipping shader validation")
		return nil
	}
	var files []string
	for _, pattern := range []string{"*.vert", "*.frag"} {
		matches, err := filepath.Glob(filepath.Join(shadersDir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	for _, f := range files {
		if _, err := executeCmd("glslangValidator", withArgs(f)); err != nil {
			return err
		}
	}
	return nil
}

// Runs the unit tests. None of them needs a window or a GPU.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/...", "./testbed/..."), withStream())
	return err
}

// Runs go mod tidy and go vet.
func Tidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return fmt.Errorf("failed to run go vet: %w", err)
	}
	return nil
}
