package testutil

import (
	"context"
	"sync"

	"rsh/internal/cargo"
)

// ScriptedRun is one predetermined build outcome.
type ScriptedRun struct {
	Result cargo.RunResult
	Err    error
}

// PassRun scripts a successful invocation with the given stdout.
func PassRun(stdout string) ScriptedRun {
	return ScriptedRun{Result: cargo.RunResult{Stdout: stdout, Success: true}}
}

// FailRun scripts a failed build/run with the given stderr.
func FailRun(stderr string) ScriptedRun {
	return ScriptedRun{Result: cargo.RunResult{Stderr: stderr}}
}

// ErrorRun scripts an invocation that could not start at all.
func ErrorRun(err error) ScriptedRun {
	return ScriptedRun{Err: err}
}

// ScriptRunner replays predetermined outcomes in order, standing in for the
// real cargo invocation. It records every call for assertions.
//
// Panics when the script is exhausted: a test demanding more runs than it
// scripted is misconfigured, and failing fast beats a misleading pass.
type ScriptRunner struct {
	mu    sync.Mutex
	steps []ScriptedRun
	idx   int
	dirs  []string
}

// NewScriptRunner creates a runner that returns the given outcomes in order.
func NewScriptRunner(steps ...ScriptedRun) *ScriptRunner {
	return &ScriptRunner{steps: steps}
}

// Run implements cargo.Runner.
func (r *ScriptRunner) Run(_ context.Context, dir string) (cargo.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idx >= len(r.steps) {
		panic("ScriptRunner: script exhausted")
	}
	step := r.steps[r.idx]
	r.idx++
	r.dirs = append(r.dirs, dir)
	return step.Result, step.Err
}

// Calls returns how many invocations have happened.
func (r *ScriptRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx
}

// Dirs returns the project directories passed to each invocation, in order.
func (r *ScriptRunner) Dirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.dirs))
	copy(out, r.dirs)
	return out
}
