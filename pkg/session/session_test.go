package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jolt-sh/jolt/pkg/layout"
	"github.com/jolt-sh/jolt/pkg/platform"
)

func TestUserPlatform(t *testing.T) {
	t.Run("NoneSelected", func(t *testing.T) {
		sess := NewWithLayout(layout.New(t.TempDir()))
		spec, err := sess.UserPlatform()
		require.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		sess := NewWithLayout(lay)

		want := platform.Spec{
			Node: semver.MustParse("18.17.1"),
			Npm:  semver.MustParse("9.6.7"),
		}
		require.NoError(t, sess.SetUserPlatform(want))

		// read through a fresh session to exercise the file
		got, err := NewWithLayout(lay).UserPlatform()
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Node.Equal(want.Node))
		assert.True(t, got.Npm.Equal(want.Npm))
	})

	t.Run("InvalidFileIsFatal", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		require.NoError(t, os.MkdirAll(lay.UserDir(), 0o750))
		require.NoError(t, os.WriteFile(lay.UserPlatformFile(), []byte("node: nope"), 0o600))

		_, err := NewWithLayout(lay).UserPlatform()
		assert.Error(t, err)
	})
}

func TestUserTool(t *testing.T) {
	t.Run("NotInstalledIsNil", func(t *testing.T) {
		sess := NewWithLayout(layout.New(t.TempDir()))
		tool, err := sess.UserTool("tsc")
		require.NoError(t, err)
		assert.Nil(t, tool)
	})

	t.Run("RoundTripWithLoader", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		sess := NewWithLayout(lay)

		want := UserTool{
			Platform: platform.Spec{Node: semver.MustParse("18.17.1")},
			BinPath:  filepath.Join(lay.Root(), "somewhere", "tsc"),
			Loader:   &Loader{Command: "node", Args: []string{"--no-warnings"}},
		}
		require.NoError(t, sess.SaveUserTool("tsc", want))

		got, err := sess.UserTool("tsc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Platform.Node.Equal(want.Platform.Node))
		assert.Nil(t, got.Platform.Npm)
		assert.Equal(t, want.BinPath, got.BinPath)
		require.NotNil(t, got.Loader)
		assert.Equal(t, "node", got.Loader.Command)
		assert.Equal(t, []string{"--no-warnings"}, got.Loader.Args)
	})

	t.Run("RoundTripWithoutLoader", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		sess := NewWithLayout(lay)

		want := UserTool{
			Platform: platform.Spec{
				Node: semver.MustParse("20.5.0"),
				Npm:  semver.MustParse("9.8.0"),
			},
			BinPath: "/opt/bin/prettier",
		}
		require.NoError(t, sess.SaveUserTool("prettier", want))

		got, err := sess.UserTool("prettier")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Loader)
		require.NotNil(t, got.Platform.Npm)
		assert.Equal(t, "9.8.0", got.Platform.Npm.String())
	})
}

func TestInventoryCaching(t *testing.T) {
	lay := layout.New(t.TempDir())
	sess := NewWithLayout(lay)

	coll, err := sess.Inventory()
	require.NoError(t, err)

	// the scanned collection is reused for the whole session
	again, err := sess.Inventory()
	require.NoError(t, err)
	assert.Same(t, coll, again)
}

func TestHooks(t *testing.T) {
	t.Run("NoConfig", func(t *testing.T) {
		sess := NewWithLayout(layout.New(t.TempDir()))
		cfg, err := sess.Hooks()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("LoadsConfig", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		content := "node:\n  distro:\n    prefix: https://mirror.example.com/\n"
		require.NoError(t, os.MkdirAll(lay.Root(), 0o750))
		require.NoError(t, os.WriteFile(lay.HooksFile(), []byte(content), 0o600))

		cfg, err := NewWithLayout(lay).Hooks()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		require.NotNil(t, cfg.Node.Distro)
		assert.Equal(t, "https://mirror.example.com/", cfg.Node.Distro.Prefix)
	})
}
