package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// zipFile is a zip archive on disk, used for Windows distributions.
type zipFile struct {
	path           string
	origin         string
	compressedSize uint64
}

// openZip validates the file by reading its central directory.
func openZip(path, origin string) (Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("archive %s is not a regular file", path)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("invalid zip archive %s: %w", path, err)
	}
	_ = r.Close()

	return &zipFile{
		path:           path,
		origin:         origin,
		compressedSize: uint64(info.Size()),
	}, nil
}

func (z *zipFile) Origin() string { return z.origin }

func (z *zipFile) CompressedSize() uint64 { return z.compressedSize }

// UncompressedSize sums the recorded entry sizes.
func (z *zipFile) UncompressedSize() (uint64, bool) {
	r, err := zip.OpenReader(z.path)
	if err != nil {
		return 0, false
	}
	defer func() { _ = r.Close() }()

	var total uint64
	for _, f := range r.File {
		total += f.UncompressedSize64
	}
	return total, true
}

// Unpack extracts the zip into destDir, reporting compressed bytes per
// entry as progress.
func (z *zipFile) Unpack(destDir string, onProgress ProgressFunc) error {
	r, err := zip.OpenReader(z.path)
	if err != nil {
		return fmt.Errorf("invalid zip archive %s: %w", z.path, err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if err := extractZipEntry(f, destDir); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(int(f.CompressedSize64)) // #nosec G115 -- entry sizes fit in int on supported platforms
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, destDir string) error {
	path := filepath.Join(destDir, f.Name) // #nosec G305 -- guarded by isPathSafe below
	if !isPathSafe(path, destDir) {
		return fmt.Errorf("invalid path in archive: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open file in archive: %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	outFile, err := os.Create(path) // #nosec G304 -- creating files during archive extraction
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	// #nosec G110 -- extracting a distribution archive the user asked for
	_, err = io.Copy(outFile, rc)
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	if err := os.Chmod(path, f.FileInfo().Mode()); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", path, err)
	}
	return nil
}
