// Package integration drives the built tally binary end to end.
package integration

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// tallyBin is the path to the built tally binary.
	tallyBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with the compiler output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot walks up from the working directory to the go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// buildTally compiles ./cmd/tally into dir and records the result.
func buildTally(dir string) {
	root, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		return
	}
	tallyBin = filepath.Join(dir, "tally")
	cmd := exec.Command("go", "build", "-o", tallyBin, "./cmd/tally")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(out)}
	}
}

// TestEnv is an isolated config and data directory.
type TestEnv struct {
	t       *testing.T
	Config  string
	DataDir string
	Backend string
}

// NewTestEnv creates an environment using backend.
func NewTestEnv(t *testing.T, backend string) *TestEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("failed to build tally: %v", buildErr)
	}
	if tallyBin == "" {
		t.Fatal("tally binary not built")
	}
	dir := t.TempDir()
	return &TestEnv{
		t:       t,
		Config:  filepath.Join(dir, "config"),
		DataDir: filepath.Join(dir, "data"),
		Backend: backend,
	}
}

// CmdResult holds the outcome of one tally run.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes tally with stdin fed from the given input lines.
func (e *TestEnv) Run(input []string, args ...string) CmdResult {
	e.t.Helper()
	all := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir, "--backend", e.Backend}, args...)
	cmd := exec.Command(tallyBin, all...)
	cmd.Env = append(os.Environ(), "TALLY_LOG_LEVEL=", "TALLY_BACKEND=")
	if len(input) > 0 {
		cmd.Stdin = strings.NewReader(strings.Join(input, "\n") + "\n")
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			e.t.Fatalf("failed to run tally: %v", err)
		}
		code = exitErr.ExitCode()
	}
	return CmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun is Run that fails the test on a non-zero exit code.
func (e *TestEnv) MustRun(input []string, args ...string) CmdResult {
	e.t.Helper()
	r := e.Run(input, args...)
	if r.ExitCode != 0 {
		e.t.Fatalf("tally %v exited %d:\nstdout: %s\nstderr: %s", args, r.ExitCode, r.Stdout, r.Stderr)
	}
	return r
}
