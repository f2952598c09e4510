//go:build mage

// Developer targets for extpack. Run with `mage <target>`.
package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bin/extpack"

// Default target to run when none is specified.
var Default = Build

// Build compiles the extpack binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/extpack")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Clean removes bin/ and the stale packaging directories.
func Clean() error {
	mg.Deps(Build)
	if err := sh.RunV(binary, "clean"); err != nil {
		return err
	}
	return os.RemoveAll("bin")
}

// Wheel builds the SDK wheel into dist/. EXTPACK_* variables are passed through.
func Wheel() error {
	mg.Deps(Build)
	return sh.RunV(binary, "--output-dir", "dist")
}
