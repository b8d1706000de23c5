package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rsh/internal/cargo"
	"rsh/internal/repl"
	"rsh/internal/session"
)

// ShellOptions holds everything the interactive shell needs.
type ShellOptions struct {
	*RootOptions
	Dir string

	// Prompter overrides the line reader (for testing). If nil, a
	// terminal-backed prompter with persistent history is used.
	Prompter repl.Prompter

	// Runner overrides the build runner (for testing). If nil, the real
	// cargo binary is invoked.
	Runner cargo.Runner
}

// runShell starts the interactive session in opts.Dir and blocks until the
// user quits.
func runShell(opts *ShellOptions, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	info, err := os.Stat(opts.Dir)
	if err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("not a project directory: %s", opts.Dir))
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = &cargo.ExecRunner{Bin: cfg.CargoBin}
	}
	sess := session.New(opts.Dir, runner,
		session.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)

	prompter := opts.Prompter
	if prompter == nil {
		lp := repl.NewLinerPrompter(cfg.HistoryFile)
		defer func() {
			if err := lp.Close(); err != nil {
				slog.Warn("closing prompt", "error", err)
			}
		}()
		stop := handleSignals(lp, sess)
		defer stop()
		prompter = lp
	}

	loop := &repl.Loop{
		Session: sess,
		Prompt:  prompter,
		Out:     cmd.OutOrStdout(),
		ErrOut:  cmd.ErrOrStderr(),
		Style:   repl.NewStyle(!opts.NoColor && !cfg.NoColor),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Debug("shell starting", "dir", opts.Dir, "session", sess.ID())
	if err := loop.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "shell error", err)
	}
	return nil
}

// handleSignals restores the terminal and removes the generated file before
// dying on SIGINT or SIGTERM. Ctrl-C at the prompt never reaches here; the
// line reader turns it into a block abort.
func handleSignals(p *repl.LinerPrompter, sess *session.Session) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		slog.Info("received signal, shutting down", "signal", sig)
		sess.Cleanup()
		p.Close()
		os.Exit(ExitInterrupt)
	}()

	return func() {
		signal.Stop(sigChan)
		close(sigChan)
	}
}
