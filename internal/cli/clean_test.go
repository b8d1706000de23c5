package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsh/internal/cargo"
	"rsh/internal/testutil"
)

func TestCleanRemovesGeneratedFile(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()
	require.NoError(t, cargo.WriteGenerated(proj.Dir, "fn main() {}\n"))

	buf := &bytes.Buffer{}
	cmd := NewCleanCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{proj.Dir})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "Removed")
	assert.Contains(t, buf.String(), "__rsh.rs")
	assert.False(t, proj.GeneratedExists())
}

func TestCleanNothingToRemove(t *testing.T) {
	proj := testutil.NewProject(t).WithBasicManifest()

	buf := &bytes.Buffer{}
	cmd := NewCleanCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{proj.Dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Nothing to remove.")
}

func TestCleanHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCleanCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "generated")
	assert.Contains(t, buf.String(), "project-dir")
}
