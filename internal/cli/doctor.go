package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rsh/internal/cargo"
	"rsh/internal/config"
	"rsh/internal/manifest"
)

// DoctorOptions holds flags for the doctor command.
type DoctorOptions struct {
	*RootOptions
	Format string // "json" | "text"
}

// ValidFormats defines the allowed doctor output formats.
var ValidFormats = []string{"text", "json"}

// DoctorReport holds the environment checks for one project directory.
type DoctorReport struct {
	ProjectDir     string          `json:"project_dir"`
	CargoPath      string          `json:"cargo_path,omitempty"`
	CargoError     string          `json:"cargo_error,omitempty"`
	ManifestFound  bool            `json:"manifest_found"`
	Crate          *manifest.Crate `json:"crate,omitempty"`
	AsyncRuntime   string          `json:"async_runtime,omitempty"`
	StaleGenerated bool            `json:"stale_generated"`
	Healthy        bool            `json:"healthy"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DoctorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "doctor [project-dir]",
		Short: "Check that the environment can run a session",
		Long: `Check that cargo is runnable, that the project has a Cargo.toml, and which
async runtime a mode switch would pick up.

Example:
  rsh doctor
  rsh doctor --format json ~/scratch/crate`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runDoctor(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runDoctor(opts *DoctorOptions, dir string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	report := buildDoctorReport(dir, cfg, formatter)
	if err := formatter.Success(report); err != nil {
		return err
	}
	if !report.Healthy {
		return NewExitError(ExitFailure, "environment not ready")
	}
	return nil
}

func buildDoctorReport(dir string, cfg config.Config, f *OutputFormatter) DoctorReport {
	report := DoctorReport{ProjectDir: dir}

	f.VerboseLog("Locating cargo executable")
	if path, err := cargo.Resolve(cfg.CargoBin); err == nil {
		report.CargoPath = path
	} else {
		report.CargoError = err.Error()
	}

	manifestPath := manifest.Path(dir)
	f.VerboseLog("Reading %s", manifestPath)
	if _, err := os.Stat(manifestPath); err == nil {
		report.ManifestFound = true

		if crate, err := manifest.Describe(manifestPath); err == nil && crate.Name != "" {
			report.Crate = &crate
		} else if err != nil {
			f.VerboseLog("Could not parse crate metadata: %v", err)
		}
		if rt, found, err := manifest.DetectRuntime(manifestPath); err == nil && found {
			report.AsyncRuntime = string(rt)
		}
	}

	if _, err := os.Stat(cargo.GeneratedPath(dir)); err == nil {
		report.StaleGenerated = true
	}

	report.Healthy = report.CargoPath != "" && report.ManifestFound
	return report
}

func (r DoctorReport) String() string {
	var b strings.Builder

	if r.CargoPath != "" {
		fmt.Fprintf(&b, "✓ cargo: %s\n", r.CargoPath)
	} else {
		fmt.Fprintf(&b, "✗ cargo: %s\n", r.CargoError)
	}

	if r.ManifestFound {
		if r.Crate != nil {
			fmt.Fprintf(&b, "✓ manifest: %s", r.Crate.Name)
			if r.Crate.Version != "" {
				fmt.Fprintf(&b, " v%s", r.Crate.Version)
			}
			if r.Crate.Edition != "" {
				fmt.Fprintf(&b, " (edition %s)", r.Crate.Edition)
			}
			b.WriteByte('\n')
		} else {
			b.WriteString("✓ manifest: Cargo.toml found\n")
		}
	} else {
		b.WriteString("✗ manifest: Cargo.toml not found\n")
	}

	if r.AsyncRuntime != "" {
		fmt.Fprintf(&b, "✓ async runtime: %s\n", r.AsyncRuntime)
	} else {
		b.WriteString("- async runtime: none declared (sync blocks only)\n")
	}

	if r.StaleGenerated {
		b.WriteString("! stale generated file present; run `rsh clean`\n")
	}

	if r.Healthy {
		b.WriteString("Environment ready.")
	} else {
		b.WriteString("Environment not ready.")
	}
	return b.String()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
