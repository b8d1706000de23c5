// Package repl drives the interactive shell: it reads blank-line-terminated
// blocks or meta-commands from a Prompter, feeds blocks to the session, and
// prints session state on demand.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"rsh/internal/manifest"
	"rsh/internal/program"
	"rsh/internal/session"
)

// Loop runs the read-submit-print cycle until the user quits. Zero-value
// fields are filled with defaults by Run; Session and Prompt are required.
type Loop struct {
	Session *session.Session
	Prompt  Prompter
	Out     io.Writer
	ErrOut  io.Writer
	Style   *Style
	Log     *slog.Logger
}

// Run drives the loop until :quit, :q, or end of input. The generated
// source file is removed when the loop exits, however it exits.
func (l *Loop) Run(ctx context.Context) error {
	l.applyDefaults()
	defer l.Session.Cleanup()

	l.printBanner()

	for {
		in, err := ReadInput(l.Prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(l.ErrOut, l.Style.Notice("Aborted."))
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		if in.Command != "" {
			if quit := l.handleCommand(in.Command); quit {
				return nil
			}
			continue
		}
		if len(in.Block) == 0 {
			continue
		}

		if _, err := l.Session.Submit(ctx, in.Block); err != nil {
			fmt.Fprintf(l.ErrOut, "rsh: %v\n", err)
			l.Log.Warn("cycle aborted", "session", l.Session.ID(), "error", err)
		}
	}
}

func (l *Loop) applyDefaults() {
	if l.Out == nil {
		l.Out = os.Stdout
	}
	if l.ErrOut == nil {
		l.ErrOut = os.Stderr
	}
	if l.Style == nil {
		l.Style = NewStyle(true)
	}
	if l.Log == nil {
		l.Log = slog.Default()
	}
}

func (l *Loop) printBanner() {
	title := "rsh: incremental Rust shell"
	if crate, err := manifest.Describe(manifest.Path(l.Session.Dir())); err == nil && crate.Name != "" {
		if crate.Version != "" {
			title = fmt.Sprintf("rsh: attached to %s v%s", crate.Name, crate.Version)
		} else {
			title = fmt.Sprintf("rsh: attached to %s", crate.Name)
		}
	}
	fmt.Fprintln(l.Out, l.Style.Banner(title))
	fmt.Fprintln(l.Out, "Type Rust code and finish a block with a blank line. :help lists commands.")
}

// handleCommand dispatches a meta-command. It reports whether the loop
// should quit.
func (l *Loop) handleCommand(cmd string) bool {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":reset":
		l.Session.Reset()
		fmt.Fprintln(l.Out, l.Style.Notice("Session reset."))
	case ":show":
		l.printShow()
	case ":del":
		l.handleDelete(fields[1:])
	case ":help":
		l.printHelp()
	default:
		fmt.Fprintf(l.ErrOut, "Unknown command: %s\n", cmd)
	}
	return false
}

func (l *Loop) printShow() {
	fmt.Fprintln(l.Out, l.Style.Header("--- PREAMBLE ---"))
	l.printBuffer(l.Session.Preamble())
	fmt.Fprintln(l.Out, l.Style.Header("--- BODY ---"))
	l.printBuffer(l.Session.Body())
	fmt.Fprintln(l.Out, l.Style.Header("--- MODE ---"))
	fmt.Fprintln(l.Out, l.Session.Mode())
}

func (l *Loop) printBuffer(lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(l.Out, "<empty>")
		return
	}
	for i, line := range lines {
		fmt.Fprintf(l.Out, "%s %s\n", l.Style.Index(fmt.Sprintf("[%d]", i)), line)
	}
}

func (l *Loop) handleDelete(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(l.ErrOut, "usage: :del <preamble|body> <index...>")
		return
	}
	seg := program.Segment(args[0])
	indices := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(l.ErrOut, "invalid index %q\n", arg)
			return
		}
		indices = append(indices, n)
	}
	if err := l.Session.Delete(seg, indices); err != nil {
		fmt.Fprintf(l.ErrOut, "rsh: %v\n", err)
		return
	}
	fmt.Fprintln(l.Out, l.Style.Notice("Deleted."))
}

func (l *Loop) printHelp() {
	fmt.Fprint(l.Out, `:show                     print both buffers and the current mode
:del <preamble|body> <i>  delete lines by the indices :show prints
:reset                    clear the session and return to sync mode
:help                     show this help
:quit, :q                 exit
`)
}
