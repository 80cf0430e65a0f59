package distro

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jolt-sh/jolt/pkg/archive"
	"github.com/jolt-sh/jolt/pkg/hook"
	"github.com/jolt-sh/jolt/pkg/inventory"
	"github.com/jolt-sh/jolt/pkg/layout"
)

// nodeTarball builds a minimal Node distribution archive: the versioned
// root directory, a node binary and the bundled npm's package.json.
func nodeTarball(t *testing.T, v *semver.Version, npm string, withManifest bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	writeFile := func(name, content string) {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o755,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	root := layout.ArchiveRootDirName(v)
	writeFile(root+"/bin/node", "#!/bin/sh\necho node\n")
	if withManifest {
		manifestRel := filepath.ToSlash(layout.NpmManifestRelPath(v))
		writeFile(manifestRel, fmt.Sprintf(`{"name":"npm","version":%q}`, npm))
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	return buf.Bytes()
}

func writeCachedTarball(t *testing.T, lay layout.Layout, v *semver.Version, npm string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(lay.InventoryDir(), 0o750))
	require.NoError(t, os.WriteFile(lay.ArchiveFile(v), nodeTarball(t, v, npm, true), 0o600))
}

// stubArchive fails the test if the install path touches the archive.
type stubArchive struct{ t *testing.T }

func (s stubArchive) Origin() string                   { return "stub" }
func (s stubArchive) CompressedSize() uint64           { return 0 }
func (s stubArchive) UncompressedSize() (uint64, bool) { return 0, false }
func (s stubArchive) Unpack(string, archive.ProgressFunc) error {
	s.t.Fatal("archive must not be unpacked for an already-installed version")
	return nil
}

func emptyCollection(t *testing.T) *inventory.Collection {
	t.Helper()
	coll, err := inventory.Scan(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	return coll
}

func TestSidecar(t *testing.T) {
	lay := layout.New(t.TempDir())
	require.NoError(t, os.MkdirAll(lay.InventoryDir(), 0o750))
	node := semver.MustParse("18.17.1")
	npm := semver.MustParse("9.6.7")

	t.Run("RoundTrip", func(t *testing.T) {
		require.NoError(t, SaveBundledNpm(lay, node, npm))
		loaded, err := LoadBundledNpm(lay, node)
		require.NoError(t, err)
		assert.True(t, npm.Equal(loaded))
	})

	t.Run("MissingIsFatal", func(t *testing.T) {
		_, err := LoadBundledNpm(lay, semver.MustParse("99.0.0"))
		assert.Error(t, err)
	})

	t.Run("UnparsableIsFatal", func(t *testing.T) {
		bad := semver.MustParse("1.0.0")
		require.NoError(t, os.WriteFile(lay.BundledNpmFile(bad), []byte("not a version"), 0o600))
		_, err := LoadBundledNpm(lay, bad)
		assert.Error(t, err)
	})
}

func TestPublicDownloadURL(t *testing.T) {
	lay := layout.New(t.TempDir())
	v := semver.MustParse("18.17.1")

	url := PublicDownloadURL(lay, v)
	assert.Equal(t, "https://nodejs.org/dist/v18.17.1/"+lay.ArchiveFileName(v), url)
}

func TestNew(t *testing.T) {
	v := semver.MustParse("18.17.1")

	t.Run("ReusesValidCachedArchive", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		writeCachedTarball(t, lay, v, "9.6.7")

		// No server is running; a download attempt would fail loudly.
		d, err := New(lay, v, &hook.ToolHooks{
			Distro: &hook.DistroHook{Prefix: "http://127.0.0.1:1/"},
		})
		require.NoError(t, err)
		assert.Equal(t, lay.ArchiveFile(v), d.Archive().Origin())
	})

	t.Run("CorruptCacheDegradesToDownload", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		require.NoError(t, os.MkdirAll(lay.InventoryDir(), 0o750))
		require.NoError(t, os.WriteFile(lay.ArchiveFile(v), []byte("garbage bytes"), 0o600))

		payload := nodeTarball(t, v, "9.6.7", true)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(payload)
		}))
		defer server.Close()

		d, err := New(lay, v, &hook.ToolHooks{
			Distro: &hook.DistroHook{Prefix: server.URL + "/"},
		})
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/"+lay.ArchiveFileName(v), d.Archive().Origin())
	})

	t.Run("DownloadFailureIsFatal", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := New(lay, v, &hook.ToolHooks{
			Distro: &hook.DistroHook{Prefix: server.URL + "/"},
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "node@18.17.1")
		assert.ErrorContains(t, err, server.URL)
	})
}

func TestFetch(t *testing.T) {
	v := semver.MustParse("18.17.1")

	t.Run("InstallsFreshVersion", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		writeCachedTarball(t, lay, v, "9.6.7")

		a, err := archive.Open(lay.ArchiveFile(v))
		require.NoError(t, err)
		d := &Distro{archive: a, version: v, layout: lay}

		var progressed int
		fetched, err := d.Fetch(emptyCollection(t), func(read int) { progressed += read })
		require.NoError(t, err)

		assert.Equal(t, FetchedNow, fetched.Status)
		assert.Equal(t, "18.17.1", fetched.Version.Runtime.String())
		assert.Equal(t, "9.6.7", fetched.Version.Npm.String())
		assert.Positive(t, progressed)

		// image published, sidecar persisted
		imageDir := lay.ImageDir(fetched.Version.Runtime, fetched.Version.Npm)
		assert.FileExists(t, filepath.Join(imageDir, "bin", "node"))
		npm, err := LoadBundledNpm(lay, v)
		require.NoError(t, err)
		assert.Equal(t, "9.6.7", npm.String())

		// scratch directory cleaned up
		entries, err := os.ReadDir(lay.ScratchRoot())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("AlreadyInstalledIsANoOp", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		require.NoError(t, os.MkdirAll(lay.InventoryDir(), 0o750))
		npm := semver.MustParse("9.6.7")
		require.NoError(t, SaveBundledNpm(lay, v, npm))

		coll := emptyCollection(t)
		coll.Add(v)
		d := &Distro{archive: stubArchive{t: t}, version: v, layout: lay}

		for i := 0; i < 2; i++ {
			fetched, err := d.Fetch(coll, nil)
			require.NoError(t, err)
			assert.Equal(t, FetchedAlready, fetched.Status)
			assert.True(t, fetched.Version.Runtime.Equal(v))
			assert.True(t, fetched.Version.Npm.Equal(npm))
		}
	})

	t.Run("InstalledWithoutSidecarIsFatal", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		coll := emptyCollection(t)
		coll.Add(v)
		d := &Distro{archive: stubArchive{t: t}, version: v, layout: lay}

		_, err := d.Fetch(coll, nil)
		assert.Error(t, err)
	})

	t.Run("MissingManifestLeavesNoImage", func(t *testing.T) {
		lay := layout.New(t.TempDir())
		require.NoError(t, os.MkdirAll(lay.InventoryDir(), 0o750))
		require.NoError(t, os.WriteFile(lay.ArchiveFile(v), nodeTarball(t, v, "9.6.7", false), 0o600))

		a, err := archive.Open(lay.ArchiveFile(v))
		require.NoError(t, err)
		d := &Distro{archive: a, version: v, layout: lay}

		_, err = d.Fetch(emptyCollection(t), nil)
		require.Error(t, err)

		// a failed install publishes nothing
		entries, readErr := os.ReadDir(lay.ImageRoot())
		if readErr == nil {
			assert.Empty(t, entries)
		} else {
			assert.True(t, os.IsNotExist(readErr))
		}
	})
}
