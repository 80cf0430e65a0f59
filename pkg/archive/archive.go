// Package archive provides download and extraction of distribution
// archives behind a single capability interface: any archive format
// reports its origin and sizes and can unpack itself into a directory
// while reporting byte-level progress.
package archive

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProgressFunc receives the number of bytes consumed since the last call.
type ProgressFunc func(read int)

// Archive is an opened distribution archive ready to be unpacked.
type Archive interface {
	// Origin identifies where the archive came from: the source URL for
	// a fresh download, the cache file path for a reused one.
	Origin() string

	// CompressedSize returns the on-disk size of the archive file.
	CompressedSize() uint64

	// UncompressedSize returns the expected extracted size when the
	// format records one.
	UncompressedSize() (uint64, bool)

	// Unpack extracts the archive into destDir, invoking onProgress as
	// bytes are consumed. onProgress may be nil.
	Unpack(destDir string, onProgress ProgressFunc) error
}

var httpClient = &http.Client{Timeout: 10 * time.Minute}

// Fetch downloads the archive at url into destFile and returns a
// validated handle for it.
func Fetch(url, destFile string) (Archive, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download from %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d for %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(destFile), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", destFile, err)
	}

	file, err := os.Create(destFile) // #nosec G304 -- destination comes from the layout, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", destFile, err)
	}

	_, err = io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write file %s: %w", destFile, err)
	}

	return open(destFile, url)
}

// Open validates an existing archive file and returns a handle for it.
func Open(path string) (Archive, error) {
	return open(path, path)
}

func open(path, origin string) (Archive, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return openZip(path, origin)
	}
	return openTarball(path, origin)
}

// isPathSafe reports whether an extraction path stays inside destDir.
func isPathSafe(path, destDir string) bool {
	return strings.HasPrefix(path, filepath.Clean(destDir)+string(os.PathSeparator))
}
