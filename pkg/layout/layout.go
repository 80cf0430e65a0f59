// Package layout derives every on-disk path jolt uses from the jolt home
// directory and version identity. Paths are pure functions of version
// strings; nothing here touches the filesystem.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/jolt-sh/jolt/pkg/constants"
)

// Layout resolves paths under a single jolt home directory.
type Layout struct {
	root string
}

// New creates a layout rooted at the given directory.
func New(root string) Layout {
	return Layout{root: root}
}

// Default resolves the jolt home directory: JOLT_HOME if set, otherwise
// ~/.jolt (matching how the cache directory is resolved elsewhere).
func Default() (Layout, error) {
	if home := os.Getenv(constants.JoltHomeEnv); home != "" {
		return New(home), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return New(filepath.Join(homeDir, constants.DefaultHomeDirName)), nil
}

// Root returns the jolt home directory.
func (l Layout) Root() string {
	return l.root
}

// InventoryDir returns the directory holding downloaded Node archives
// and the bundled-npm sidecar files.
func (l Layout) InventoryDir() string {
	return filepath.Join(l.root, "inventory", "node")
}

// ArchiveFileName returns the platform-specific distribution file name
// for a Node version, e.g. "node-v18.17.1-linux-x64.tar.gz".
func (l Layout) ArchiveFileName(v *semver.Version) string {
	ext := "tar.gz"
	if runtime.GOOS == constants.WindowsOS {
		ext = "zip"
	}
	return fmt.Sprintf("%s.%s", ArchiveRootDirName(v), ext)
}

// ArchiveFile returns the cache path for a Node version's archive.
func (l Layout) ArchiveFile(v *semver.Version) string {
	return filepath.Join(l.InventoryDir(), l.ArchiveFileName(v))
}

// BundledNpmFile returns the sidecar file recording the npm version
// bundled with a Node version.
func (l Layout) BundledNpmFile(v *semver.Version) string {
	return filepath.Join(l.InventoryDir(), fmt.Sprintf("node-v%s-npm", v))
}

// ImageRoot returns the root of the installed Node image tree.
func (l Layout) ImageRoot() string {
	return filepath.Join(l.root, "tools", "image", "node")
}

// ImageDir returns the install directory for a node+npm pair. The pair
// uniquely determines the directory.
func (l Layout) ImageDir(node, npm *semver.Version) string {
	return filepath.Join(l.ImageRoot(), node.String(), npm.String())
}

// ImageBinDir returns the directory inside an image that holds the
// node and npm executables.
func (l Layout) ImageBinDir(node, npm *semver.Version) string {
	if runtime.GOOS == constants.WindowsOS {
		return l.ImageDir(node, npm)
	}
	return filepath.Join(l.ImageDir(node, npm), "bin")
}

// ScratchRoot returns the root for ephemeral extraction directories.
// Every install extracts into a private directory created under it.
func (l Layout) ScratchRoot() string {
	return filepath.Join(l.root, "tmp")
}

// UserDir returns the root of user-level toolchain state.
func (l Layout) UserDir() string {
	return filepath.Join(l.root, "tools", "user")
}

// UserPlatformFile returns the file recording the user's default platform.
func (l Layout) UserPlatformFile() string {
	return filepath.Join(l.UserDir(), "platform.yaml")
}

// UserToolsDir returns the directory of per-tool bin configs for tools
// installed into the user toolchain.
func (l Layout) UserToolsDir() string {
	return filepath.Join(l.UserDir(), "bins")
}

// UserToolFile returns the bin config path for a user-installed tool.
func (l Layout) UserToolFile(name string) string {
	return filepath.Join(l.UserToolsDir(), name+".yaml")
}

// HooksFile returns the hook configuration file path.
func (l Layout) HooksFile() string {
	return filepath.Join(l.root, "hooks.yaml")
}

// ArchiveRootDirName returns the top-level directory name inside a Node
// distribution archive, e.g. "node-v18.17.1-linux-x64".
func ArchiveRootDirName(v *semver.Version) string {
	return fmt.Sprintf("node-v%s-%s-%s", v, normalizedOS(), normalizedArch())
}

// NpmManifestRelPath returns the path of the bundled npm's package.json
// relative to the extraction directory. Windows archives keep npm at the
// archive root; Unix archives nest it under lib.
func NpmManifestRelPath(v *semver.Version) string {
	if runtime.GOOS == constants.WindowsOS {
		return filepath.Join(ArchiveRootDirName(v), "node_modules", "npm", "package.json")
	}
	return filepath.Join(ArchiveRootDirName(v), "lib", "node_modules", "npm", "package.json")
}

// normalizedOS returns the OS component used in Node distribution names.
func normalizedOS() string {
	switch runtime.GOOS {
	case constants.DarwinOS:
		return "darwin"
	case constants.WindowsOS:
		return "win"
	case constants.LinuxOS:
		return "linux"
	default:
		return runtime.GOOS
	}
}

// normalizedArch returns the architecture component used in Node
// distribution names.
func normalizedArch() string {
	switch runtime.GOARCH {
	case constants.ArchAMD64:
		return "x64"
	case constants.ArchARM64:
		return "arm64"
	case constants.Arch386:
		return "x86"
	default:
		return runtime.GOARCH
	}
}
