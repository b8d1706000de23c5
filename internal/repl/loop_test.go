package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsh/internal/session"
	"rsh/internal/testutil"
)

// newTestLoop wires a session and loop onto shared buffers so assertions
// see everything the user would.
func newTestLoop(t *testing.T, proj *testutil.Project, runner *testutil.ScriptRunner, p Prompter) (*Loop, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	sess := session.New(proj.Dir, runner,
		session.WithOutput(out, errOut),
		session.WithLogger(log),
	)
	loop := &Loop{
		Session: sess,
		Prompt:  p,
		Out:     out,
		ErrOut:  errOut,
		Style:   NewStyle(false),
		Log:     log,
	}
	return loop, out, errOut
}

func TestLoopSubmitThenQuit(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	runner := testutil.NewScriptRunner(testutil.PassRun("5\n"))
	p := &scriptPrompter{steps: codeSteps(
		"let x = 5;",
		`println!("{}", x);`,
		"",
		":quit",
	)}
	loop, out, _ := newTestLoop(t, proj, runner, p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 1, runner.Calls())
	assert.Contains(t, out.String(), "5\n")
	assert.False(t, proj.GeneratedExists(), "generated file is removed on exit")
}

func TestLoopPrintsBannerWithCrateMetadata(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	p := &scriptPrompter{steps: codeSteps(":q")}
	loop, out, _ := newTestLoop(t, proj, testutil.NewScriptRunner(), p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, out.String(), "rsh: attached to rsh-fixture v0.1.0")
}

func TestLoopBannerWithoutManifest(t *testing.T) {
	proj := testutil.NewProject(t)
	p := &scriptPrompter{steps: codeSteps(":q")}
	loop, out, _ := newTestLoop(t, proj, testutil.NewScriptRunner(), p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, out.String(), "rsh: incremental Rust shell")
}

func TestLoopShowCommand(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	runner := testutil.NewScriptRunner(testutil.PassRun(""))
	p := &scriptPrompter{steps: codeSteps(
		"use std::fs;",
		"",
		":show",
		":q",
	)}
	loop, out, _ := newTestLoop(t, proj, runner, p)

	require.NoError(t, loop.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "--- PREAMBLE ---")
	assert.Contains(t, text, "[0] use std::fs;")
	assert.Contains(t, text, "--- BODY ---")
	assert.Contains(t, text, "<empty>")
	assert.Contains(t, text, "--- MODE ---")
	assert.Contains(t, text, "sync")
}

func TestLoopResetCommand(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	runner := testutil.NewScriptRunner(testutil.PassRun(""))
	p := &scriptPrompter{steps: codeSteps(
		"let a = 1;",
		"",
		":reset",
		":q",
	)}
	loop, out, _ := newTestLoop(t, proj, runner, p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, out.String(), "Session reset.")
	assert.Empty(t, loop.Session.Body())
}

func TestLoopUnknownCommand(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	p := &scriptPrompter{steps: codeSteps(":frobnicate", ":q")}
	loop, _, errOut := newTestLoop(t, proj, testutil.NewScriptRunner(), p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, errOut.String(), "Unknown command: :frobnicate")
}

func TestLoopDeleteCommand(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	runner := testutil.NewScriptRunner(testutil.PassRun(""))
	p := &scriptPrompter{steps: codeSteps(
		"let a = 1;",
		"let b = 2;",
		"",
		":del body 0",
		":show",
		":q",
	)}
	loop, out, _ := newTestLoop(t, proj, runner, p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, out.String(), "Deleted.")
	assert.Contains(t, out.String(), "[0] let b = 2;")
	assert.NotContains(t, out.String(), "let a = 1;")
}

func TestLoopDeleteUsageErrors(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	p := &scriptPrompter{steps: codeSteps(":del", ":del body x", ":del attic 0", ":q")}
	loop, _, errOut := newTestLoop(t, proj, testutil.NewScriptRunner(), p)

	require.NoError(t, loop.Run(context.Background()))

	text := errOut.String()
	assert.Contains(t, text, "usage: :del <preamble|body> <index...>")
	assert.Contains(t, text, `invalid index "x"`)
	assert.Contains(t, text, "unknown segment")
}

func TestLoopHelpCommand(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	p := &scriptPrompter{steps: codeSteps(":help", ":q")}
	loop, out, _ := newTestLoop(t, proj, testutil.NewScriptRunner(), p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, out.String(), ":reset")
	assert.Contains(t, out.String(), ":del")
}

func TestLoopContinuesAfterInternalError(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	runner := testutil.NewScriptRunner(
		testutil.ErrorRun(errors.New("cargo: executable file not found")),
		testutil.PassRun("ok\n"),
	)
	p := &scriptPrompter{steps: codeSteps(
		"let a = 1;",
		"",
		`println!("ok");`,
		"",
		":q",
	)}
	loop, out, errOut := newTestLoop(t, proj, runner, p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, errOut.String(), "rsh: ")
	assert.Contains(t, errOut.String(), "executable file not found")
	assert.Contains(t, out.String(), "ok\n", "session keeps accepting blocks")
	assert.Equal(t, 2, runner.Calls())
}

func TestLoopEOFQuitsCleanly(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	p := &scriptPrompter{}
	loop, out, _ := newTestLoop(t, proj, testutil.NewScriptRunner(), p)

	require.NoError(t, loop.Run(context.Background()))
	assert.Contains(t, out.String(), "rsh: attached to rsh-fixture")
}

func TestLoopAbortedPromptAbandonsBlock(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	runner := testutil.NewScriptRunner(testutil.PassRun("after\n"))
	p := &scriptPrompter{steps: []promptStep{
		{line: "let doomed = 1;"},
		{err: liner.ErrPromptAborted},
		{line: `println!("after");`},
		{line: ""},
		{line: ":q"},
	}}
	loop, out, errOut := newTestLoop(t, proj, runner, p)

	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, errOut.String(), "Aborted.")
	assert.Contains(t, out.String(), "after\n")
	assert.NotContains(t, loop.Session.Body(), "let doomed = 1;")
}
