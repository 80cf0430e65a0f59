// Package commands implements the jolt CLI commands.
package commands

import (
	"github.com/Masterminds/semver/v3"

	"github.com/jolt-sh/jolt/pkg/constants"
	"github.com/jolt-sh/jolt/pkg/distro"
	"github.com/jolt-sh/jolt/pkg/session"
	"github.com/jolt-sh/jolt/pkg/version"
)

// resolveVersionArg turns a CLI version argument into a concrete
// version. Exact triples are used as-is; loose specs ("18", "18.17")
// are matched against the installed inventory first, then against the
// public release index so a loose spec can still name a version that
// has never been installed.
func resolveVersionArg(sess *session.Session, spec string) (*semver.Version, error) {
	if version.IsExact(spec) {
		return version.Parse(spec)
	}

	constraint, err := version.ParseSpec(spec)
	if err != nil {
		return nil, err
	}

	coll, err := sess.Inventory()
	if err != nil {
		return nil, err
	}
	if v, ok := coll.Resolve(constraint); ok {
		return v, nil
	}
	return distro.ResolveLatestMatching(constants.PublicNodeIndexURL, constraint)
}
