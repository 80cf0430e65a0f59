package distro

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jolt-sh/jolt/pkg/layout"
	"github.com/jolt-sh/jolt/pkg/version"
)

// SaveBundledNpm records the npm version bundled with a Node version in
// its sidecar file, so later installs of the same version never need to
// re-extract the archive to learn it.
func SaveBundledNpm(lay layout.Layout, node, npm *semver.Version) error {
	path := lay.BundledNpmFile(node)
	if err := os.WriteFile(path, []byte(npm.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write bundled npm version file %s: %w", path, err)
	}
	return nil
}

// LoadBundledNpm reads the sidecar file for a Node version. A missing
// or unparsable sidecar for a version reported as installed is a
// consistency error, not a silent default.
func LoadBundledNpm(lay layout.Layout, node *semver.Version) (*semver.Version, error) {
	path := lay.BundledNpmFile(node)
	data, err := os.ReadFile(path) // #nosec G304 -- path derived from the layout
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled npm version file %s: %w", path, err)
	}
	npm, err := version.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid bundled npm version in %s: %w", path, err)
	}
	return npm, nil
}
