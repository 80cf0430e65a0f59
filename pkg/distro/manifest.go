package distro

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/jolt-sh/jolt/pkg/version"
)

// manifest is the slice of npm's package.json the installer needs: the
// version of npm bundled with the extracted Node distribution. Different
// builds of the same Node version may bundle different npm versions, so
// this is always read from the actual payload.
type manifest struct {
	Version string `json:"version"`
}

// bundledNpmVersion reads the npm package manifest inside an extracted
// distribution and returns the bundled npm version.
func bundledNpmVersion(path string) (*semver.Version, error) {
	file, err := os.Open(path) // #nosec G304 -- reading from our own scratch directory
	if err != nil {
		return nil, fmt.Errorf("failed to read npm manifest %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var m manifest
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse npm manifest %s: %w", path, err)
	}
	return version.Parse(m.Version)
}
