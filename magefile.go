//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the ddlinfer binary into the bin/ directory.
func Build() error {
	fmt.Println("Building...")
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return sh.Run("go", "build", "-ldflags", "-X main.version="+version, "-o", "./bin/ddlinfer", "./cmd/ddlinfer")
}

// Install runs go install for the ddlinfer command.
func Install() error {
	fmt.Println("Installing...")
	return sh.Run("go", "install", "./cmd/ddlinfer")
}

// Test runs all tests with the race detector and writes a coverage profile.
func Test() error {
	fmt.Println("Running Tests...")
	return sh.RunV("go", "test", "-race", "-cover", "-coverprofile=cover.out", "./...")
}

// Clean removes build and coverage outputs.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	return os.RemoveAll("cover.out")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println("Running go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Check runs formatting and vet checks.
func Check() error {
	mg.Deps(Fmt, Vet)
	return nil
}

// Fmt runs go fmt ./...
func Fmt() error {
	fmt.Println("Running go fmt...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet ./...
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}
