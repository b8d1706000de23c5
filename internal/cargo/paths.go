package cargo

import (
	"fmt"
	"os"
	"path/filepath"

	"rsh/internal/codegen"
)

// BinDir returns the secondary-binary directory of a cargo project.
func BinDir(dir string) string {
	return filepath.Join(dir, "src", "bin")
}

// GeneratedPath returns the fixed path of the generated source file.
func GeneratedPath(dir string) string {
	return filepath.Join(BinDir(dir), codegen.TargetName+".rs")
}

// WriteGenerated overwrites the generated file with the full program text,
// creating the bin directory if needed. Always a complete overwrite so stale
// content can never survive a render.
func WriteGenerated(dir, text string) error {
	if err := os.MkdirAll(BinDir(dir), 0755); err != nil {
		return fmt.Errorf("create bin dir: %w", err)
	}
	if err := os.WriteFile(GeneratedPath(dir), []byte(text), 0644); err != nil {
		return fmt.Errorf("write generated file: %w", err)
	}
	return nil
}

// RemoveGenerated deletes the generated file if present. Returns whether a
// file was removed.
func RemoveGenerated(dir string) (bool, error) {
	path := GeneratedPath(dir)
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("remove generated file: %w", err)
}
