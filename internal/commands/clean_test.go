package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveArchives(t *testing.T) {
	t.Run("RemovesArchivesKeepsSidecars", func(t *testing.T) {
		dir := t.TempDir()
		tarball := filepath.Join(dir, "node-v18.17.1-linux-x64.tar.gz")
		zipfile := filepath.Join(dir, "node-v20.5.0-win-x64.zip")
		sidecar := filepath.Join(dir, "node-v18.17.1-npm")
		for _, path := range []string{tarball, zipfile, sidecar} {
			require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
		}

		removed, err := removeArchives(dir, false)
		require.NoError(t, err)

		assert.Equal(t, 2, removed)
		assert.NoFileExists(t, tarball)
		assert.NoFileExists(t, zipfile)
		assert.FileExists(t, sidecar)
	})

	t.Run("MissingInventoryIsFine", func(t *testing.T) {
		removed, err := removeArchives(filepath.Join(t.TempDir(), "none"), false)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}
