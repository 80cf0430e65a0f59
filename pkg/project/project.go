// Package project locates the caller's project context: the nearest
// package.json above the working directory, its pinned jolt platform,
// and the binaries its direct dependencies declare.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jolt-sh/jolt/pkg/platform"
	"github.com/jolt-sh/jolt/pkg/version"
)

const manifestFileName = "package.json"

// pinnedPlatform is the "jolt" key of package.json.
type pinnedPlatform struct {
	Node string `json:"node"`
	Npm  string `json:"npm,omitempty"`
}

// packageManifest is the slice of package.json the resolver needs.
type packageManifest struct {
	Name            string            `json:"name"`
	Jolt            *pinnedPlatform   `json:"jolt,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// binField is the "bin" key of a dependency's package.json; either a
// single path string or a map of command name to path.
type binField struct {
	present  bool
	single   bool
	commands []string
}

func (b *binField) UnmarshalJSON(data []byte) error {
	b.present = true
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		// single-bin form; the command is named after the package
		b.single = true
		return nil
	}
	var many map[string]string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	for name := range many {
		b.commands = append(b.commands, name)
	}
	return nil
}

// Project is a detected project context.
type Project struct {
	dir      string
	manifest packageManifest
}

// Find walks up from startDir looking for a package.json. It returns
// nil with no error when no project is found.
func Find(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", startDir, err)
	}

	for {
		manifestPath := filepath.Join(dir, manifestFileName)
		if info, err := os.Stat(manifestPath); err == nil && info.Mode().IsRegular() {
			return load(dir, manifestPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func load(dir, manifestPath string) (*Project, error) {
	data, err := os.ReadFile(manifestPath) // #nosec G304 -- reading the user's project manifest
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	return &Project{dir: dir, manifest: m}, nil
}

// Dir returns the project root directory.
func (p *Project) Dir() string {
	return p.dir
}

// Platform returns the project's pinned platform, or nil when the
// project does not pin one.
func (p *Project) Platform() (*platform.Spec, error) {
	pin := p.manifest.Jolt
	if pin == nil || pin.Node == "" {
		return nil, nil
	}

	node, err := version.Parse(pin.Node)
	if err != nil {
		return nil, fmt.Errorf("invalid pinned node version in %s: %w", p.dir, err)
	}

	spec := &platform.Spec{Node: node}
	if pin.Npm != "" {
		npm, err := version.Parse(pin.Npm)
		if err != nil {
			return nil, fmt.Errorf("invalid pinned npm version in %s: %w", p.dir, err)
		}
		spec.Npm = npm
	}
	return spec, nil
}

// LocalBinDir returns the project's local binary directory.
func (p *Project) LocalBinDir() string {
	return filepath.Join(p.dir, "node_modules", ".bin")
}

// HasDirectBin reports whether a direct dependency of the project
// declares the named binary. Only dependencies listed in the project
// manifest are consulted; transitive packages never claim a command.
func (p *Project) HasDirectBin(name string) bool {
	for dep := range p.manifest.Dependencies {
		if p.dependencyDeclaresBin(dep, name) {
			return true
		}
	}
	for dep := range p.manifest.DevDependencies {
		if p.dependencyDeclaresBin(dep, name) {
			return true
		}
	}
	return false
}

func (p *Project) dependencyDeclaresBin(dep, name string) bool {
	depManifest := filepath.Join(p.dir, "node_modules", filepath.FromSlash(dep), manifestFileName)
	data, err := os.ReadFile(depManifest) // #nosec G304 -- reading installed dependency manifests
	if err != nil {
		return false
	}

	var m struct {
		Name string   `json:"name"`
		Bin  binField `json:"bin"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}

	if !m.Bin.present {
		return false
	}
	if m.Bin.single {
		return unscopedName(dep) == name
	}
	for _, cmd := range m.Bin.commands {
		if cmd == name {
			return true
		}
	}
	return false
}

func unscopedName(pkg string) string {
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		return pkg[i+1:]
	}
	return pkg
}
