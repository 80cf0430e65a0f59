// Package inventory tracks which Node versions are installed in the
// image tree. The directory scan is the source of truth: a version is
// installed if and only if its image directory exists.
package inventory

import (
	"fmt"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Collection is the set of installed Node versions.
type Collection struct {
	versions map[string]*semver.Version
}

// Scan reads the image tree root and collects every directory whose
// name parses as a version. A missing root means nothing is installed.
func Scan(imageRoot string) (*Collection, error) {
	c := &Collection{versions: make(map[string]*semver.Version)}

	entries, err := os.ReadDir(imageRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read image directory %s: %w", imageRoot, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := semver.StrictNewVersion(entry.Name())
		if err != nil {
			continue
		}
		c.versions[v.String()] = v
	}
	return c, nil
}

// Contains reports whether the version is installed.
func (c *Collection) Contains(v *semver.Version) bool {
	_, ok := c.versions[v.String()]
	return ok
}

// Add records a freshly installed version.
func (c *Collection) Add(v *semver.Version) {
	c.versions[v.String()] = v
}

// Versions returns the installed versions in ascending order.
func (c *Collection) Versions() []*semver.Version {
	out := make([]*semver.Version, 0, len(c.versions))
	for _, v := range c.versions {
		out = append(out, v)
	}
	sort.Sort(semver.Collection(out))
	return out
}

// Resolve returns the highest installed version matching the constraint.
func (c *Collection) Resolve(constraint *semver.Constraints) (*semver.Version, bool) {
	versions := c.Versions()
	for i := len(versions) - 1; i >= 0; i-- {
		if constraint.Check(versions[i]) {
			return versions[i], true
		}
	}
	return nil, false
}
