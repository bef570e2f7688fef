package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSaveAndRemove(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	err = store.Save("pic.png", []byte("image-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path("pic.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	require.NoError(t, store.Remove("pic.png"))
	_, err = os.Stat(store.Path("pic.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreRemoveMissingFile(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	// Removing a file that is already gone is not an error.
	assert.NoError(t, store.Remove("never-existed.png"))
}

func TestDiskStorePathEscapesStripped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	p := store.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(dir, "passwd"), p)
}

func TestGenerateFilename(t *testing.T) {
	t.Parallel()

	name := GenerateFilename("My Photo.JPG")
	assert.True(t, strings.HasSuffix(name, ".JPG"))
	assert.True(t, strings.HasPrefix(name, "My-Photo_"))
	assert.NotContains(t, name, " ")

	// Two uploads of the same file must not collide.
	assert.NotEqual(t, GenerateFilename("a.png"), GenerateFilename("a.png"))
}

func TestGenerateFilenameEmptyStem(t *testing.T) {
	t.Parallel()

	name := GenerateFilename("....png")
	assert.True(t, strings.HasPrefix(name, "upload_"))
}
