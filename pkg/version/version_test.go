package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("ExactTriple", func(t *testing.T) {
		v, err := Parse("18.17.1")
		require.NoError(t, err)
		assert.Equal(t, "18.17.1", v.String())
	})

	t.Run("LeadingV", func(t *testing.T) {
		v, err := Parse("v20.5.0")
		require.NoError(t, err)
		assert.Equal(t, "20.5.0", v.String())
	})

	t.Run("RejectsPartial", func(t *testing.T) {
		_, err := Parse("18.17")
		assert.Error(t, err)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, err := Parse("latest")
		assert.Error(t, err)
	})
}

func TestIsExact(t *testing.T) {
	assert.True(t, IsExact("18.17.1"))
	assert.True(t, IsExact("v18.17.1"))
	assert.False(t, IsExact("18"))
	assert.False(t, IsExact("18.17"))
	assert.False(t, IsExact(""))
}

func TestParseSpec(t *testing.T) {
	check := func(t *testing.T, spec, version string, want bool) {
		t.Helper()
		c, err := ParseSpec(spec)
		require.NoError(t, err)
		v := semver.MustParse(version)
		assert.Equal(t, want, c.Check(v), "spec %q against %s", spec, version)
	}

	t.Run("MajorOnly", func(t *testing.T) {
		check(t, "18", "18.0.0", true)
		check(t, "18", "18.17.1", true)
		check(t, "18", "19.0.0", false)
	})

	t.Run("MajorMinor", func(t *testing.T) {
		check(t, "18.17", "18.17.0", true)
		check(t, "18.17", "18.17.9", true)
		check(t, "18.17", "18.18.0", false)
	})

	t.Run("FullTriple", func(t *testing.T) {
		check(t, "v18.17.1", "18.17.1", true)
		check(t, "v18.17.1", "18.17.2", false)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseSpec("not-a-version")
		assert.Error(t, err)
	})
}

func TestNodeVersion(t *testing.T) {
	nv := NodeVersion{
		Runtime: semver.MustParse("18.17.1"),
		Npm:     semver.MustParse("9.6.7"),
	}

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "node@18.17.1 (with npm@9.6.7)", nv.String())
	})

	t.Run("Equal", func(t *testing.T) {
		same := NodeVersion{
			Runtime: semver.MustParse("18.17.1"),
			Npm:     semver.MustParse("9.6.7"),
		}
		other := NodeVersion{
			Runtime: semver.MustParse("18.17.1"),
			Npm:     semver.MustParse("9.8.0"),
		}
		assert.True(t, nv.Equal(same))
		assert.False(t, nv.Equal(other))
	})
}
