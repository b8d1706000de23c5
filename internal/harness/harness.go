// Package harness provides a conformance testing framework for the shell.
//
// Scenarios are YAML files that script both sides of a session: the lines
// the user types and the outcomes the build tool returns. The harness runs
// the real read loop and session against those scripts in a throwaway cargo
// project, capturing a single interleaved transcript of prompts, echoed
// input, build output, and shell notices. The transcript is compared
// against a golden file, and the scenario's expect clause asserts on the
// final buffers and mode.
//
// Every scripted run must be consumed: a scenario that runs the build tool
// more or fewer times than scripted fails.
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsh/internal/cargo"
	"rsh/internal/repl"
	"rsh/internal/session"
	"rsh/internal/testutil"
)

// Result captures a finished scenario run.
type Result struct {
	// Transcript is the interleaved terminal capture of the whole run.
	Transcript string

	// Session is the final session state.
	Session *session.Session

	// Runner records how the build tool was driven.
	Runner *testutil.ScriptRunner

	// Project is the throwaway cargo project the session ran in.
	Project *testutil.Project
}

// Run executes a scenario in a fresh project and evaluates its expect
// clause. Each scenario gets its own temp directory for isolation.
func Run(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	proj := projectFor(t, scenario.Manifest)
	runner := testutil.NewScriptRunner(scriptedRuns(scenario.Runs)...)

	transcript := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// One writer for both streams keeps the transcript in true order.
	sess := session.New(proj.Dir, runner,
		session.WithOutput(transcript, transcript),
		session.WithLogger(log),
	)
	loop := &repl.Loop{
		Session: sess,
		Prompt:  &echoPrompter{transcript: transcript, lines: scenario.inputLines()},
		Out:     transcript,
		ErrOut:  transcript,
		Style:   repl.NewStyle(false),
		Log:     log,
	}
	require.NoError(t, loop.Run(context.Background()), "scenario %s: loop failed", scenario.Name)

	result := &Result{
		Transcript: transcript.String(),
		Session:    sess,
		Runner:     runner,
		Project:    proj,
	}
	evaluateExpectations(t, scenario, result)
	return result
}

// echoPrompter replays scripted lines, echoing prompt and line into the
// transcript the way a terminal capture would.
type echoPrompter struct {
	transcript io.Writer
	lines      []string
	idx        int
}

func (p *echoPrompter) Prompt(prompt string) (string, error) {
	if p.idx >= len(p.lines) {
		return "", io.EOF
	}
	line := p.lines[p.idx]
	p.idx++
	// Trailing whitespace is trimmed so golden files survive editors that
	// strip it.
	fmt.Fprintln(p.transcript, strings.TrimRight(prompt+line, " "))
	return line, nil
}

func (p *echoPrompter) AppendHistory(string) {}

func projectFor(t *testing.T, kind string) *testutil.Project {
	t.Helper()
	proj := testutil.NewProject(t)
	switch kind {
	case ManifestTokio:
		return proj.WithTokio()
	case ManifestAsyncStd:
		return proj.WithAsyncStd()
	case ManifestSmol:
		return proj.WithSmol()
	default:
		return proj.WithBasicManifest()
	}
}

func scriptedRuns(runs []RunStep) []testutil.ScriptedRun {
	steps := make([]testutil.ScriptedRun, 0, len(runs))
	for _, run := range runs {
		switch run.Outcome {
		case RunError:
			steps = append(steps, testutil.ErrorRun(errors.New(run.Message)))
		default:
			steps = append(steps, testutil.ScriptedRun{Result: cargo.RunResult{
				Stdout:  run.Stdout,
				Stderr:  run.Stderr,
				Success: run.Outcome == RunPass,
			}})
		}
	}
	return steps
}

func evaluateExpectations(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	assert.Equal(t, len(scenario.Runs), result.Runner.Calls(),
		"scenario %s: every scripted run must be consumed", scenario.Name)

	exp := scenario.Expect
	if exp.Mode != "" {
		assert.Equal(t, exp.Mode, result.Session.Mode().String(), "mode")
	}
	assertBuffer(t, "preamble", exp.Preamble, result.Session.Preamble())
	assertBuffer(t, "body", exp.Body, result.Session.Body())
	for _, want := range exp.TranscriptContains {
		assert.Contains(t, result.Transcript, want)
	}
}

func assertBuffer(t *testing.T, name string, want *[]string, got []string) {
	t.Helper()
	if want == nil {
		return
	}
	if len(*want) == 0 {
		assert.Empty(t, got, "%s buffer", name)
		return
	}
	assert.Equal(t, *want, got, "%s buffer", name)
}
