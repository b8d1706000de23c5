// Package cli wires the rsh commands: the interactive shell itself plus
// the clean and doctor maintenance commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rsh/internal/config"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose    bool
	NoColor    bool
	ConfigPath string
}

// NewRootCommand creates the root command. Running it with no subcommand
// starts the interactive shell.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rsh [project-dir]",
		Short: "rsh - an incremental Rust shell",
		Long: `An interactive shell that accumulates Rust code line by line and runs it
through cargo after every completed block. Item declarations collect in a
preamble, statements in a body; when a block needs async support, the shell
switches to the async runtime declared in Cargo.toml.

Example:
  rsh                   start a shell in the current directory
  rsh ~/scratch/crate   start a shell in another cargo project
  rsh doctor            check that cargo and Cargo.toml are usable`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runShell(&ShellOptions{RootOptions: opts, Dir: dir}, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable styled output")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: rsh/config.yaml under the user config dir)")

	// Add subcommands
	cmd.AddCommand(NewCleanCommand(opts))
	cmd.AddCommand(NewDoctorCommand(opts))

	return cmd
}

// configureLogging routes structured logs to stderr, at debug level when
// verbose is set.
func configureLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the config file named by --config, falling back to the
// per-user default location.
func loadConfig(opts *RootOptions) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	return config.Load(path)
}
