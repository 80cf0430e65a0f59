// Package constants provides shared constants used throughout jolt
package constants

// Operating system identifiers
const (
	// WindowsOS represents the Windows operating system string
	WindowsOS = "windows"
	// LinuxOS represents the Linux operating system string
	LinuxOS = "linux"
	// DarwinOS represents the macOS/Darwin operating system string
	DarwinOS = "darwin"
)

// Architecture identifiers
const (
	// ArchAMD64 represents the AMD 64-bit architecture identifier
	ArchAMD64 = "amd64"
	// ArchARM64 represents the ARM 64-bit architecture identifier
	ArchARM64 = "arm64"
	// Arch386 represents the 386 architecture identifier
	Arch386 = "386"
)

// Distribution constants
const (
	// PublicNodeServerRoot is the default Node.js distribution registry
	PublicNodeServerRoot = "https://nodejs.org/dist"
	// PublicNodeIndexURL is the registry's release index, listing every
	// published Node version with its bundled npm
	PublicNodeIndexURL = PublicNodeServerRoot + "/index.json"
	// JoltHomeEnv overrides the jolt home directory when set
	JoltHomeEnv = "JOLT_HOME"
	// DefaultHomeDirName is the directory created under the user home
	DefaultHomeDirName = ".jolt"
)
