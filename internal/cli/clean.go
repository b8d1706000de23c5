package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rsh/internal/cargo"
)

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [project-dir]",
		Short: "Remove the generated source file",
		Long: `Remove the generated src/bin/__rsh.rs left behind by a session that did
not exit cleanly.

Example:
  rsh clean
  rsh clean ~/scratch/crate`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runClean(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runClean(opts *RootOptions, dir string, cmd *cobra.Command) error {
	configureLogging(opts)

	removed, err := cargo.RemoveGenerated(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to remove generated file", err)
	}
	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", cargo.GeneratedPath(dir))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove.")
	}
	return nil
}
