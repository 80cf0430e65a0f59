// Package distro provisions and installs Node.js distributions. A
// Distro is a provisioned-but-not-yet-installed distribution: it owns
// an opened archive and knows which runtime version it carries. Fetch
// consumes it, extracting into a private scratch directory and
// publishing the image with a single atomic rename.
package distro

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/jolt-sh/jolt/pkg/archive"
	"github.com/jolt-sh/jolt/pkg/constants"
	"github.com/jolt-sh/jolt/pkg/hook"
	"github.com/jolt-sh/jolt/pkg/inventory"
	"github.com/jolt-sh/jolt/pkg/layout"
	"github.com/jolt-sh/jolt/pkg/version"
)

// Distro is a provisioned Node distribution.
type Distro struct {
	archive archive.Archive
	version *semver.Version
	layout  layout.Layout
}

// FetchStatus distinguishes a fresh install from a no-op.
type FetchStatus int

const (
	// FetchedAlready means the version was installed before this call.
	FetchedAlready FetchStatus = iota
	// FetchedNow means this call performed the install.
	FetchedNow
)

// Fetched is the result of a fetch: the full version identity of the
// installed image, and whether this call did the work.
type Fetched struct {
	Status  FetchStatus
	Version version.NodeVersion
}

// PublicDownloadURL builds the default registry URL for a Node version.
func PublicDownloadURL(lay layout.Layout, v *semver.Version) string {
	return fmt.Sprintf("%s/v%s/%s", constants.PublicNodeServerRoot, v, lay.ArchiveFileName(v))
}

// New provisions a distribution for the given version. When a distro
// hook is configured it supplies the download URL; otherwise the public
// registry is used.
func New(lay layout.Layout, v *semver.Version, hooks *hook.ToolHooks) (*Distro, error) {
	if hooks != nil && hooks.Distro != nil {
		log.Debug("using node.distro hook to determine download URL")
		url := hooks.Distro.Resolve(v, lay.ArchiveFileName(v))
		return remote(lay, v, url)
	}
	return remote(lay, v, PublicDownloadURL(lay, v))
}

// remote provisions a distribution from a download URL, reusing the
// cached archive when it still validates.
func remote(lay layout.Layout, v *semver.Version, url string) (*Distro, error) {
	archiveFile := lay.ArchiveFile(v)

	if a := loadCachedArchive(archiveFile); a != nil {
		log.Debug("loading node from cached archive", "version", v, "file", archiveFile)
		return &Distro{archive: a, version: v, layout: lay}, nil
	}

	if err := os.MkdirAll(lay.InventoryDir(), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create inventory directory: %w", err)
	}

	log.Debug("downloading node", "version", v, "url", url)
	a, err := archive.Fetch(url, archiveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to download node@%s from %s: %w", v, url, err)
	}
	return &Distro{archive: a, version: v, layout: lay}, nil
}

// loadCachedArchive returns the cached archive if it is still usable.
// A cache file is trusted only if it re-validates as a well-formed
// archive right now; any failure silently degrades to a re-download.
func loadCachedArchive(path string) archive.Archive {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	a, err := archive.Open(path)
	if err != nil {
		return nil
	}
	return a
}

// Version returns the runtime version this distribution carries.
func (d *Distro) Version() *semver.Version {
	return d.version
}

// Archive exposes the underlying archive, for size and origin reporting.
func (d *Distro) Archive() archive.Archive {
	return d.archive
}

// Fetch installs this distribution into the image tree. If the version
// is already in the collection the archive is never touched and the
// bundled npm version is read from its sidecar file. Otherwise the
// archive is extracted into a private scratch directory, the bundled
// npm version is read from the payload manifest and persisted, and the
// extracted tree is published with one atomic rename.
func (d *Distro) Fetch(coll *inventory.Collection, onProgress archive.ProgressFunc) (Fetched, error) {
	if coll.Contains(d.version) {
		npm, err := LoadBundledNpm(d.layout, d.version)
		if err != nil {
			return Fetched{}, err
		}
		log.Debug("node already fetched, skipping install", "version", d.version)
		return Fetched{
			Status:  FetchedAlready,
			Version: version.NodeVersion{Runtime: d.version, Npm: npm},
		}, nil
	}

	if err := os.MkdirAll(d.layout.ScratchRoot(), 0o750); err != nil {
		return Fetched{}, fmt.Errorf("failed to create scratch root: %w", err)
	}
	scratch, err := os.MkdirTemp(d.layout.ScratchRoot(), "node-")
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to create scratch directory in %s: %w", d.layout.ScratchRoot(), err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	log.Debug("unpacking node", "version", d.version, "dir", scratch)
	if err := d.archive.Unpack(scratch, onProgress); err != nil {
		return Fetched{}, fmt.Errorf("failed to unpack node@%s: %w", d.version, err)
	}

	manifestPath := filepath.Join(scratch, layout.NpmManifestRelPath(d.version))
	npm, err := bundledNpmVersion(manifestPath)
	if err != nil {
		return Fetched{}, err
	}

	// Written before the publish rename. The sidecar is an optimization
	// only; installs never consult it unless the image directory exists.
	if err := SaveBundledNpm(d.layout, d.version, npm); err != nil {
		return Fetched{}, err
	}

	dest := d.layout.ImageDir(d.version, npm)
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return Fetched{}, fmt.Errorf("failed to create image directory for node@%s: %w", d.version, err)
	}

	if err := os.Rename(filepath.Join(scratch, layout.ArchiveRootDirName(d.version)), dest); err != nil {
		return Fetched{}, fmt.Errorf("failed to set up image for node@%s in %s: %w", d.version, dest, err)
	}

	log.Debug("installed node", "version", d.version, "npm", npm, "dir", dest)
	return Fetched{
		Status:  FetchedNow,
		Version: version.NodeVersion{Runtime: d.version, Npm: npm},
	}, nil
}
