// Package platform turns a selected node+npm pairing into concrete
// filesystem paths and an execution environment.
package platform

import (
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jolt-sh/jolt/pkg/distro"
	"github.com/jolt-sh/jolt/pkg/hook"
	"github.com/jolt-sh/jolt/pkg/inventory"
	"github.com/jolt-sh/jolt/pkg/layout"
	"github.com/jolt-sh/jolt/pkg/version"
)

// Context supplies the state Checkout needs. *session.Session satisfies it.
type Context interface {
	Layout() layout.Layout
	Inventory() (*inventory.Collection, error)
	Hooks() (*hook.Config, error)
}

// Spec selects a platform: a Node version and, optionally, a pinned npm
// version. When Npm is nil the npm bundled with the Node version is used.
type Spec struct {
	Node *semver.Version
	Npm  *semver.Version
}

// Checkout realizes the spec into an installed Image, provisioning and
// installing the distribution first when it is not present.
func (s Spec) Checkout(ctx Context) (*Image, error) {
	lay := ctx.Layout()

	coll, err := ctx.Inventory()
	if err != nil {
		return nil, err
	}

	if !coll.Contains(s.Node) {
		cfg, err := ctx.Hooks()
		if err != nil {
			return nil, err
		}
		var hooks *hook.ToolHooks
		if cfg != nil {
			hooks = &cfg.Node
		}
		d, err := distro.New(lay, s.Node, hooks)
		if err != nil {
			return nil, err
		}
		if _, err := d.Fetch(coll, nil); err != nil {
			return nil, err
		}
		coll.Add(s.Node)
	}

	npm := s.Npm
	if npm == nil {
		npm, err = distro.LoadBundledNpm(lay, s.Node)
		if err != nil {
			return nil, err
		}
	}

	return &Image{
		Node:   version.NodeVersion{Runtime: s.Node, Npm: npm},
		layout: lay,
	}, nil
}

// Image references an installed distribution on disk.
type Image struct {
	Node   version.NodeVersion
	layout layout.Layout
}

// NewImage wraps an installed node+npm pair.
func NewImage(lay layout.Layout, nv version.NodeVersion) *Image {
	return &Image{Node: nv, layout: lay}
}

// Dir returns the image's install directory.
func (i *Image) Dir() string {
	return i.layout.ImageDir(i.Node.Runtime, i.Node.Npm)
}

// BinDir returns the directory holding the image's executables.
func (i *Image) BinDir() string {
	return i.layout.ImageBinDir(i.Node.Runtime, i.Node.Npm)
}

// Path returns a PATH value with the image's bin directory ahead of the
// ambient search path.
func (i *Image) Path() string {
	ambient := os.Getenv("PATH")
	if ambient == "" {
		return i.BinDir()
	}
	return i.BinDir() + string(os.PathListSeparator) + ambient
}

// Env returns a copy of the ambient environment with PATH replaced by
// the image-aware search path.
func (i *Image) Env() []string {
	env := os.Environ()
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "PATH="+i.Path())
}
