// Package manifest inspects the host project's Cargo.toml.
//
// Runtime detection deliberately treats the manifest as raw text: the switch
// decision tests case-insensitive substring presence of the runtime crate
// names, nothing more. A runtime mentioned anywhere in the file counts. The
// separate Describe helper parses the [package] table for display purposes
// only and plays no part in any session decision.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rsh/internal/program"
)

// Filename is the dependency manifest of a cargo project.
const Filename = "Cargo.toml"

// Path returns the manifest path for a project directory.
func Path(dir string) string {
	return filepath.Join(dir, Filename)
}

// DetectRuntime reads the manifest at path and returns the highest-priority
// async runtime whose name appears in it, testing in the fixed order tokio,
// async-std, smol. The second return is false when none is declared.
//
// A read failure is returned as an error; deciding "no runtime" from an
// unreadable manifest would turn an IO problem into a misleading message.
func DetectRuntime(path string) (program.Runtime, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read manifest: %w", err)
	}

	lower := strings.ToLower(string(data))
	for _, rt := range program.RuntimePriority {
		if strings.Contains(lower, string(rt)) {
			return rt, true, nil
		}
	}
	return "", false, nil
}

// Crate describes the [package] table of a manifest.
type Crate struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Edition string `json:"edition,omitempty"`
}

// Describe parses the manifest's [package] table. Best-effort: callers show
// the result when available and carry on without it otherwise.
func Describe(path string) (Crate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Crate{}, fmt.Errorf("read manifest: %w", err)
	}

	var doc struct {
		Package struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
			Edition string `toml:"edition"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Crate{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	return Crate{
		Name:    doc.Package.Name,
		Version: doc.Package.Version,
		Edition: doc.Package.Edition,
	}, nil
}
