// Package session implements the orchestrating state machine of rsh.
//
// A Session owns the only mutable state of a run: the preamble buffer, the
// body buffer, and the execution mode. All mutation goes through Submit,
// Reset, and Delete on a single owning handle; state is never shared or
// aliased out (accessors return copies).
//
// Invariants:
//   - Buffers only grow, in submission order, except on Reset, Delete, or
//     a mode-switch rollback.
//   - Mode moves forward only (sync to async); once async, no automatic
//     transition happens again.
//   - After any completed submission the state is either the pre-submission
//     state unchanged or that state plus the whole block, never a mixture.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"rsh/internal/cargo"
	"rsh/internal/codegen"
	"rsh/internal/diagnose"
	"rsh/internal/manifest"
	"rsh/internal/program"
)

// User-facing notices. They go to the diagnostic stream, alongside the build
// output they comment on.
const (
	msgAsyncDetected = "rsh: Async usage detected (`await` or async error), but no supported async runtime was found in Cargo.toml."
	msgAddRuntime    = "rsh: Please add one of: tokio, async-std, or smol to your Cargo.toml and try again."
	msgSwitchFmt     = "rsh: Detected async usage; switching to async mode with runtime: %s."
	msgRolledBack    = "rsh: Async attempt failed; rolled back the last block and returned to sync mode."
)

// Session accumulates typed code into a runnable program and drives the
// build tool. Not safe for concurrent use: one block is submitted, executed,
// and settled before the next is accepted.
type Session struct {
	dir    string
	runner cargo.Runner
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
	id     string
	cycle  int64

	preamble []string
	body     []string
	mode     program.Mode
}

// Option configures a Session.
type Option func(*Session)

// WithOutput redirects the user-visible stdout and stderr surfaces.
func WithOutput(out, errOut io.Writer) Option {
	return func(s *Session) {
		if out != nil {
			s.out = out
		}
		if errOut != nil {
			s.errOut = errOut
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New creates a session for the given project directory. An empty dir means
// the current directory; a nil runner means the real cargo executable.
func New(dir string, runner cargo.Runner, opts ...Option) *Session {
	if dir == "" {
		dir = "."
	}
	if runner == nil {
		runner = &cargo.ExecRunner{}
	}

	s := &Session{
		dir:    dir,
		runner: runner,
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    slog.Default(),
		id:     uuid.Must(uuid.NewV7()).String(),
		mode:   program.ModeSync,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier, used in log records.
func (s *Session) ID() string { return s.id }

// Dir returns the project directory the session is attached to.
func (s *Session) Dir() string { return s.dir }

// Mode returns the current execution mode.
func (s *Session) Mode() program.Mode { return s.mode }

// Preamble returns a copy of the preamble buffer.
func (s *Session) Preamble() []string { return slices.Clone(s.preamble) }

// Body returns a copy of the body buffer.
func (s *Session) Body() []string { return slices.Clone(s.body) }

// Submit classifies a block into the buffers and runs one execute cycle.
//
// On success the new buffer state is kept. On an ordinary build failure the
// state is also kept: the tool never hides or undoes a user's build error.
// When the failure carries an async signature and the mode is still sync,
// Submit runs the switch protocol: detect a runtime from the manifest,
// tentatively switch, rerun once. A failing rerun restores buffers and mode
// to exactly their pre-submission snapshot.
//
// The returned error is reserved for the IOError class (generated file,
// build executable, manifest). The session survives such an error; only the
// current cycle is abandoned.
func (s *Session) Submit(ctx context.Context, block program.Block) (Outcome, error) {
	snap := s.takeSnapshot()

	var nPre, nBody int
	for _, line := range block {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if program.Classify(line) == program.SegmentPreamble {
			s.preamble = append(s.preamble, line)
			nPre++
		} else {
			s.body = append(s.body, line)
			nBody++
		}
	}
	if nPre == 0 && nBody == 0 {
		return Outcome{Status: StatusSkipped, Mode: s.mode}, nil
	}

	s.log.Debug("block submitted",
		"session", s.id,
		"preamble_lines", nPre,
		"body_lines", nBody,
		"mode", s.mode.String())

	first, err := s.executeCycle(ctx)
	if err != nil {
		// The cycle never produced diagnostics; keep the block so the user
		// can retry without retyping.
		return Outcome{}, err
	}
	if first.Success {
		return Outcome{Status: StatusOK, Mode: s.mode, First: first}, nil
	}

	// Once async, failing cycles are reported as-is.
	if s.mode.Async || !diagnose.LooksAsync(first.Stderr) {
		return Outcome{Status: StatusBuildFailed, Mode: s.mode, First: first}, nil
	}

	rt, found, err := manifest.DetectRuntime(manifest.Path(s.dir))
	if err != nil {
		return Outcome{}, newIOError(OpManifest, manifest.Path(s.dir), err)
	}
	if !found {
		fmt.Fprintln(s.errOut, msgAsyncDetected)
		fmt.Fprintln(s.errOut, msgAddRuntime)
		return Outcome{Status: StatusNoRuntime, Mode: s.mode, First: first}, nil
	}

	// Tentative switch: exactly one rerun under the detected runtime.
	s.mode = program.ModeAsync(rt)
	fmt.Fprintf(s.errOut, msgSwitchFmt+"\n", rt)
	s.log.Debug("mode switch attempt", "session", s.id, "runtime", string(rt))

	second, err := s.executeCycle(ctx)
	if err != nil {
		s.restore(snap)
		return Outcome{}, err
	}
	if second.Success {
		s.log.Debug("mode switch complete", "session", s.id, "mode", s.mode.String())
		return Outcome{Status: StatusSwitched, Mode: s.mode, First: first, Second: &second}, nil
	}

	s.restore(snap)
	fmt.Fprintln(s.errOut, msgRolledBack)
	s.log.Debug("mode switch rolled back", "session", s.id)
	return Outcome{Status: StatusRolledBack, Mode: s.mode, First: first, Second: &second}, nil
}

// Reset clears both buffers and returns the mode to sync. Always succeeds.
func (s *Session) Reset() {
	s.preamble = nil
	s.body = nil
	s.mode = program.ModeSync
	s.log.Debug("session reset", "session", s.id)
}

// Delete removes the given 0-based lines from one buffer. Validation is
// atomic: any out-of-range index leaves both buffers untouched. Duplicates
// are collapsed. No execute cycle runs; the next submission rebuilds the
// program from the edited buffers.
func (s *Session) Delete(seg program.Segment, indices []int) error {
	var buf *[]string
	switch seg {
	case program.SegmentPreamble:
		buf = &s.preamble
	case program.SegmentBody:
		buf = &s.body
	default:
		return fmt.Errorf("unknown segment %q", seg)
	}

	for _, idx := range indices {
		if idx < 0 || idx >= len(*buf) {
			return fmt.Errorf("index %d out of range for %s (%d lines)", idx, seg, len(*buf))
		}
	}

	uniq := slices.Clone(indices)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)

	// Back to front so remaining indices stay valid.
	for i := len(uniq) - 1; i >= 0; i-- {
		idx := uniq[i]
		*buf = append((*buf)[:idx], (*buf)[idx+1:]...)
	}

	s.log.Debug("lines deleted",
		"session", s.id,
		"segment", string(seg),
		"count", len(uniq))
	return nil
}

// Cleanup removes the generated file. Best effort, called when the session
// ends.
func (s *Session) Cleanup() {
	if _, err := cargo.RemoveGenerated(s.dir); err != nil {
		fmt.Fprintf(s.errOut, "rsh: failed to remove generated file: %v\n", err)
	}
}

// executeCycle renders the program, overwrites the generated file, invokes
// the build tool, and surfaces both captured streams verbatim.
func (s *Session) executeCycle(ctx context.Context) (cargo.RunResult, error) {
	s.cycle++

	text, err := codegen.Render(s.preamble, s.body, s.mode)
	if err != nil {
		return cargo.RunResult{}, newIOError(OpRender, "", err)
	}
	if err := cargo.WriteGenerated(s.dir, text); err != nil {
		return cargo.RunResult{}, newIOError(OpWrite, cargo.GeneratedPath(s.dir), err)
	}

	start := time.Now()
	res, err := s.runner.Run(ctx, s.dir)
	if err != nil {
		return res, newIOError(OpInvoke, s.dir, err)
	}

	s.log.Debug("execute cycle",
		"session", s.id,
		"cycle", s.cycle,
		"mode", s.mode.String(),
		"success", res.Success,
		"duration", time.Since(start))

	io.WriteString(s.out, res.Stdout)
	io.WriteString(s.errOut, res.Stderr)

	return res, nil
}

type snapshot struct {
	preamble []string
	body     []string
	mode     program.Mode
}

func (s *Session) takeSnapshot() snapshot {
	return snapshot{
		preamble: slices.Clone(s.preamble),
		body:     slices.Clone(s.body),
		mode:     s.mode,
	}
}

func (s *Session) restore(snap snapshot) {
	s.preamble = snap.preamble
	s.body = snap.body
	s.mode = snap.mode
}
