package cargo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", "src", "bin", "__rsh.rs"), GeneratedPath("proj"))
}

func TestWriteGeneratedCreatesBinDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteGenerated(dir, "fn main() {}\n"))

	data, err := os.ReadFile(GeneratedPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(data))
}

func TestWriteGeneratedOverwritesCompletely(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteGenerated(dir, "fn main() { old_and_much_longer_content(); }\n"))
	require.NoError(t, WriteGenerated(dir, "fn main() {}\n"))

	data, err := os.ReadFile(GeneratedPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(data))
}

func TestRemoveGenerated(t *testing.T) {
	dir := t.TempDir()

	removed, err := RemoveGenerated(dir)
	require.NoError(t, err)
	assert.False(t, removed, "nothing to remove yet")

	require.NoError(t, WriteGenerated(dir, "fn main() {}\n"))

	removed, err = RemoveGenerated(dir)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = os.Stat(GeneratedPath(dir))
	assert.True(t, os.IsNotExist(err))
}
