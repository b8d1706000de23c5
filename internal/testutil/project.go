// Package testutil provides fixtures and deterministic doubles shared by
// tests across the module: a throwaway cargo project layout and a scripted
// build runner.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rsh/internal/cargo"
	"rsh/internal/manifest"
)

// Project is a temporary cargo project directory for tests. Builder methods
// chain and fail the test on IO errors.
type Project struct {
	t   testing.TB
	Dir string
}

// NewProject creates an empty project rooted in a fresh temp directory.
func NewProject(t testing.TB) *Project {
	t.Helper()
	return &Project{t: t, Dir: t.TempDir()}
}

// WithManifest writes an arbitrary Cargo.toml.
func (p *Project) WithManifest(content string) *Project {
	p.t.Helper()
	require.NoError(p.t, os.WriteFile(manifest.Path(p.Dir), []byte(content), 0644))
	return p
}

// WithBasicManifest writes a manifest that declares no async runtime.
func (p *Project) WithBasicManifest() *Project {
	return p.WithManifest(`[package]
name = "rsh-fixture"
version = "0.1.0"
edition = "2021"

[dependencies]
`)
}

// WithTokio writes a manifest declaring a tokio dependency.
func (p *Project) WithTokio() *Project {
	return p.WithManifest(`[package]
name = "rsh-fixture"
version = "0.1.0"
edition = "2021"

[dependencies]
tokio = { version = "1", features = ["full"] }
`)
}

// WithAsyncStd writes a manifest declaring an async-std dependency.
func (p *Project) WithAsyncStd() *Project {
	return p.WithManifest(`[package]
name = "rsh-fixture"
version = "0.1.0"
edition = "2021"

[dependencies]
async-std = { version = "1", features = ["attributes"] }
`)
}

// WithSmol writes a manifest declaring a smol dependency.
func (p *Project) WithSmol() *Project {
	return p.WithManifest(`[package]
name = "rsh-fixture"
version = "0.1.0"
edition = "2021"

[dependencies]
smol = "2"
`)
}

// WithMainRS writes a stub src/main.rs so the layout matches a real crate.
func (p *Project) WithMainRS() *Project {
	p.t.Helper()
	srcDir := filepath.Join(p.Dir, "src")
	require.NoError(p.t, os.MkdirAll(srcDir, 0755))
	require.NoError(p.t, os.WriteFile(filepath.Join(srcDir, "main.rs"), []byte("fn main() {}\n"), 0644))
	return p
}

// ReadGenerated returns the current contents of the generated file.
func (p *Project) ReadGenerated() string {
	p.t.Helper()
	data, err := os.ReadFile(cargo.GeneratedPath(p.Dir))
	require.NoError(p.t, err)
	return string(data)
}

// GeneratedExists reports whether the generated file is present.
func (p *Project) GeneratedExists() bool {
	_, err := os.Stat(cargo.GeneratedPath(p.Dir))
	return err == nil
}
