// Package session holds the state a single jolt invocation reads: the
// jolt home layout, the active project (if any), the user's default
// platform, the user toolchain, hook configuration and the installed
// inventory. Everything is loaded lazily and at most once.
package session

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/jolt-sh/jolt/pkg/hook"
	"github.com/jolt-sh/jolt/pkg/inventory"
	"github.com/jolt-sh/jolt/pkg/layout"
	"github.com/jolt-sh/jolt/pkg/platform"
	"github.com/jolt-sh/jolt/pkg/project"
	"github.com/jolt-sh/jolt/pkg/version"
)

// Session is the read-only view of jolt state for one invocation.
type Session struct {
	lay layout.Layout

	proj         *project.Project
	projLoaded   bool
	userPlat     *platform.Spec
	userPlatLoad bool
	hooks        *hook.Config
	hooksLoaded  bool
	inv          *inventory.Collection
}

// New creates a session over the default jolt home.
func New() (*Session, error) {
	lay, err := layout.Default()
	if err != nil {
		return nil, err
	}
	return NewWithLayout(lay), nil
}

// NewWithLayout creates a session over an explicit layout.
func NewWithLayout(lay layout.Layout) *Session {
	return &Session{lay: lay}
}

// Layout returns the session's filesystem layout.
func (s *Session) Layout() layout.Layout {
	return s.lay
}

// Project returns the active project, or nil when the working directory
// is not inside one.
func (s *Session) Project() (*project.Project, error) {
	if s.projLoaded {
		return s.proj, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	proj, err := project.Find(cwd)
	if err != nil {
		return nil, err
	}
	if proj != nil {
		log.Debug("found project", "dir", proj.Dir())
	}
	s.proj, s.projLoaded = proj, true
	return s.proj, nil
}

// userPlatformFile mirrors the platform.yaml schema.
type userPlatformFile struct {
	Node string `yaml:"node"`
	Npm  string `yaml:"npm,omitempty"`
}

// UserPlatform returns the user's default platform, or nil when none
// has been selected.
func (s *Session) UserPlatform() (*platform.Spec, error) {
	if s.userPlatLoad {
		return s.userPlat, nil
	}

	path := s.lay.UserPlatformFile()
	data, err := os.ReadFile(path) // #nosec G304 -- path derived from the layout
	if err != nil {
		if os.IsNotExist(err) {
			s.userPlatLoad = true
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user platform file %s: %w", path, err)
	}

	var file userPlatformFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse user platform file %s: %w", path, err)
	}
	spec, err := specFromStrings(file.Node, file.Npm, path)
	if err != nil {
		return nil, err
	}
	s.userPlat, s.userPlatLoad = spec, true
	return s.userPlat, nil
}

// SetUserPlatform persists the user's default platform.
func (s *Session) SetUserPlatform(spec platform.Spec) error {
	file := userPlatformFile{Node: spec.Node.String()}
	if spec.Npm != nil {
		file.Npm = spec.Npm.String()
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode user platform: %w", err)
	}

	path := s.lay.UserPlatformFile()
	if err := os.MkdirAll(s.lay.UserDir(), 0o750); err != nil {
		return fmt.Errorf("failed to create user directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user platform file %s: %w", path, err)
	}
	return nil
}

// Hooks returns the hook configuration, or nil when none is present.
func (s *Session) Hooks() (*hook.Config, error) {
	if s.hooksLoaded {
		return s.hooks, nil
	}
	cfg, err := hook.Load(s.lay.HooksFile())
	if err != nil {
		return nil, err
	}
	s.hooks, s.hooksLoaded = cfg, true
	return s.hooks, nil
}

// Inventory returns the installed-version collection, scanning the
// image tree on first use.
func (s *Session) Inventory() (*inventory.Collection, error) {
	if s.inv != nil {
		return s.inv, nil
	}
	coll, err := inventory.Scan(s.lay.ImageRoot())
	if err != nil {
		return nil, err
	}
	s.inv = coll
	return s.inv, nil
}

// Loader is an interpreter invoked ahead of a user tool's real binary.
type Loader struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// UserTool describes a tool explicitly installed into the user toolchain.
type UserTool struct {
	Platform platform.Spec
	BinPath  string
	Loader   *Loader
}

// userToolFile mirrors the per-tool bin config schema.
type userToolFile struct {
	Platform userPlatformFile `yaml:"platform"`
	BinPath  string           `yaml:"bin-path"`
	Loader   *Loader          `yaml:"loader,omitempty"`
}

// UserTool looks up a tool in the user toolchain by command name. It
// returns nil when the tool is not installed.
func (s *Session) UserTool(name string) (*UserTool, error) {
	path := s.lay.UserToolFile(name)
	data, err := os.ReadFile(path) // #nosec G304 -- path derived from the layout
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tool config %s: %w", path, err)
	}

	var file userToolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tool config %s: %w", path, err)
	}
	spec, err := specFromStrings(file.Platform.Node, file.Platform.Npm, path)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, fmt.Errorf("tool config %s does not name a node version", path)
	}
	return &UserTool{Platform: *spec, BinPath: file.BinPath, Loader: file.Loader}, nil
}

// SaveUserTool writes a tool's bin config into the user toolchain.
func (s *Session) SaveUserTool(name string, tool UserTool) error {
	file := userToolFile{
		Platform: userPlatformFile{Node: tool.Platform.Node.String()},
		BinPath:  tool.BinPath,
		Loader:   tool.Loader,
	}
	if tool.Platform.Npm != nil {
		file.Platform.Npm = tool.Platform.Npm.String()
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode tool config for %s: %w", name, err)
	}
	if err := os.MkdirAll(s.lay.UserToolsDir(), 0o750); err != nil {
		return fmt.Errorf("failed to create user tools directory: %w", err)
	}
	path := s.lay.UserToolFile(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write tool config %s: %w", path, err)
	}
	return nil
}

func specFromStrings(node, npm, path string) (*platform.Spec, error) {
	if node == "" {
		return nil, nil
	}
	nodeVersion, err := version.Parse(node)
	if err != nil {
		return nil, fmt.Errorf("invalid node version in %s: %w", path, err)
	}
	spec := &platform.Spec{Node: nodeVersion}
	if npm != "" {
		npmVersion, err := version.Parse(npm)
		if err != nil {
			return nil, fmt.Errorf("invalid npm version in %s: %w", path, err)
		}
		spec.Npm = npmVersion
	}
	return spec, nil
}
