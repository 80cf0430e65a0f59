// Package version provides semantic version handling for Node.js
// distributions and the npm versions bundled with them.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/dlclark/regexp2"
)

// loosePattern accepts the version forms users actually type: a full
// triple, a partial version, with or without a leading "v".
var loosePattern = regexp2.MustCompile(
	`^v?(?<major>\d+)(?:\.(?<minor>\d+))?(?:\.(?<patch>\d+))?$`,
	regexp2.None,
)

// Parse parses an exact three-component version, tolerating a leading "v".
func Parse(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

// IsExact reports whether the spec names a full major.minor.patch triple.
func IsExact(spec string) bool {
	_, err := Parse(spec)
	return err == nil
}

// ParseSpec parses a loose version spec ("18", "18.17", "v18.17.1") into
// a constraint matching every version within the named prefix.
func ParseSpec(spec string) (*semver.Constraints, error) {
	m, err := loosePattern.FindStringMatch(strings.TrimSpace(spec))
	if err != nil || m == nil {
		return nil, fmt.Errorf("invalid version spec %q", spec)
	}

	major := m.GroupByName("major").String()
	minor := m.GroupByName("minor")
	patch := m.GroupByName("patch")

	var text string
	switch {
	case len(patch.Captures) > 0:
		text = fmt.Sprintf("%s.%s.%s", major, minor.String(), patch.String())
	case len(minor.Captures) > 0:
		text = fmt.Sprintf("~%s.%s", major, minor.String())
	default:
		text = fmt.Sprintf("^%s", major)
	}

	c, err := semver.NewConstraint(text)
	if err != nil {
		return nil, fmt.Errorf("invalid version spec %q: %w", spec, err)
	}
	return c, nil
}

// NodeVersion is the full identity of an installed Node distribution:
// the runtime itself plus the npm installed globally with it.
type NodeVersion struct {
	Runtime *semver.Version
	Npm     *semver.Version
}

// String renders the pair the way it appears in user-facing output.
func (nv NodeVersion) String() string {
	return fmt.Sprintf("node@%s (with npm@%s)", nv.Runtime, nv.Npm)
}

// Equal reports whether both components match exactly.
func (nv NodeVersion) Equal(other NodeVersion) bool {
	return nv.Runtime.Equal(other.Runtime) && nv.Npm.Equal(other.Npm)
}
