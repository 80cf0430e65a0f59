package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jolt-sh/jolt/pkg/layout"
	"github.com/jolt-sh/jolt/pkg/session"
)

// installVersionDir fakes an installed version in the image tree so the
// inventory scan picks it up.
func installVersionDir(t *testing.T, lay layout.Layout, v string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(lay.ImageRoot(), v), 0o750))
}

func TestResolveVersionArg(t *testing.T) {
	t.Run("ExactTriple", func(t *testing.T) {
		sess := session.NewWithLayout(layout.New(t.TempDir()))

		v, err := resolveVersionArg(sess, "18.17.1")
		require.NoError(t, err)
		assert.Equal(t, "18.17.1", v.String())
	})

	t.Run("LeadingV", func(t *testing.T) {
		sess := session.NewWithLayout(layout.New(t.TempDir()))

		v, err := resolveVersionArg(sess, "v20.5.0")
		require.NoError(t, err)
		assert.Equal(t, "20.5.0", v.String())
	})

	t.Run("LooseSpecPrefersInstalled", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		installVersionDir(t, lay, "18.16.0")
		installVersionDir(t, lay, "18.17.1")
		installVersionDir(t, lay, "20.5.0")

		v, err := resolveVersionArg(session.NewWithLayout(lay), "18")
		require.NoError(t, err)
		assert.Equal(t, "18.17.1", v.String())
	})

	t.Run("InvalidSpecIsFatal", func(t *testing.T) {
		sess := session.NewWithLayout(layout.New(t.TempDir()))

		_, err := resolveVersionArg(sess, "latest")
		assert.Error(t, err)
	})
}
