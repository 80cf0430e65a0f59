package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	t.Run("MissingRootIsEmpty", func(t *testing.T) {
		coll, err := Scan(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, coll.Versions())
	})

	t.Run("CollectsVersionDirectories", func(t *testing.T) {
		root := t.TempDir()
		for _, name := range []string{"18.17.1", "20.5.0", "not-a-version"} {
			require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o750))
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, "19.0.0"), nil, 0o600))

		coll, err := Scan(root)
		require.NoError(t, err)

		assert.True(t, coll.Contains(semver.MustParse("18.17.1")))
		assert.True(t, coll.Contains(semver.MustParse("20.5.0")))
		// files and unparsable names are ignored
		assert.False(t, coll.Contains(semver.MustParse("19.0.0")))
		assert.Len(t, coll.Versions(), 2)
	})
}

func TestCollection(t *testing.T) {
	coll, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	coll.Add(semver.MustParse("18.17.1"))
	coll.Add(semver.MustParse("18.16.0"))
	coll.Add(semver.MustParse("20.5.0"))

	t.Run("VersionsSorted", func(t *testing.T) {
		versions := coll.Versions()
		require.Len(t, versions, 3)
		assert.Equal(t, "18.16.0", versions[0].String())
		assert.Equal(t, "20.5.0", versions[2].String())
	})

	t.Run("ResolvePicksHighestMatch", func(t *testing.T) {
		c, err := semver.NewConstraint("~18")
		require.NoError(t, err)

		v, ok := coll.Resolve(c)
		require.True(t, ok)
		assert.Equal(t, "18.17.1", v.String())
	})

	t.Run("ResolveNoMatch", func(t *testing.T) {
		c, err := semver.NewConstraint("^21")
		require.NoError(t, err)

		_, ok := coll.Resolve(c)
		assert.False(t, ok)
	})
}
