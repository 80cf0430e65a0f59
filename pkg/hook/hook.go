// Package hook loads the optional hook configuration that lets users
// redirect distribution downloads to a mirror instead of the public
// registry.
package hook

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Config is the root of the hooks.yaml file.
type Config struct {
	Node ToolHooks `yaml:"node"`
}

// ToolHooks groups the hooks configured for one managed tool.
type ToolHooks struct {
	Distro *DistroHook `yaml:"distro"`
}

// DistroHook computes an override download URL for a distribution.
// Exactly one strategy must be configured:
//
//	prefix:   the default file name is appended to the prefix
//	template: "{{version}}" and "{{filename}}" are substituted
type DistroHook struct {
	Prefix   string `yaml:"prefix"`
	Template string `yaml:"template"`
}

// Load reads the hook configuration from path. A missing file is not an
// error; it simply means no hooks are configured.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- reading the user's own hook config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hook config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hook config %s: %w", path, err)
	}
	if cfg.Node.Distro != nil {
		if err := cfg.Node.Distro.validate(); err != nil {
			return nil, fmt.Errorf("invalid hook config %s: %w", path, err)
		}
	}
	return &cfg, nil
}

func (h *DistroHook) validate() error {
	if (h.Prefix == "") == (h.Template == "") {
		return fmt.Errorf("node.distro hook must set exactly one of prefix or template")
	}
	return nil
}

// Resolve produces the download URL for a version, given the default
// distribution file name.
func (h *DistroHook) Resolve(v *semver.Version, filename string) string {
	if h.Template != "" {
		url := strings.ReplaceAll(h.Template, "{{version}}", v.String())
		return strings.ReplaceAll(url, "{{filename}}", filename)
	}
	return h.Prefix + filename
}
