// Package cargo adapts the external build tool. The rest of the session
// treats cargo as an opaque collaborator: one fixed command, captured
// streams, a success flag. Nothing here interprets compiler output.
package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"rsh/internal/codegen"
)

// RunResult captures one build-and-run invocation. Transient: results are
// surfaced to the user and inspected once, never persisted.
type RunResult struct {
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
	Success bool   `json:"success"`
}

// Runner executes the generated binary target inside a project directory.
//
// A failed build or a failing user program is a successful invocation with
// Success=false; the error return is reserved for not being able to invoke
// the tool at all (missing executable, unusable working directory).
type Runner interface {
	Run(ctx context.Context, dir string) (RunResult, error)
}

// ExecRunner invokes the real cargo binary with the fixed command
// `cargo run --quiet --bin __rsh`.
type ExecRunner struct {
	// Bin overrides the cargo executable; empty resolves "cargo" from PATH.
	Bin string
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir string) (RunResult, error) {
	bin := r.Bin
	if bin == "" {
		bin = "cargo"
	}

	cmd := exec.CommandContext(ctx, bin, "run", "--quiet", "--bin", codegen.TargetName)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		res.Success = true
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Non-zero exit: the diagnostics are already in the streams.
		return res, nil
	}
	// exec's own error names the binary; the session adds the project dir.
	return res, err
}

// Resolve locates the cargo executable on the search path.
func Resolve(bin string) (string, error) {
	if bin == "" {
		bin = "cargo"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", bin, err)
	}
	return path, nil
}
