package main

import (
	"fmt"
	"os/exec"
)

// findDotkitBinary finds the dotkit binary under test.
// It relies on the caller putting a freshly built binary on the PATH,
// e.g. `go build -o bin/dotkit ./cmd/dotkit` with ./bin prepended.
func findDotkitBinary() (string, error) {
	path, err := exec.LookPath("dotkit")
	if err != nil {
		return "", fmt.Errorf("could not find 'dotkit' binary in PATH. Build it with 'go build ./cmd/dotkit' first")
	}
	return path, nil
}
