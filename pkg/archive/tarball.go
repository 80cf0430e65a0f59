package archive

import (
	"archive/tar"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tarball is a gzip-compressed tar archive on disk.
type tarball struct {
	path             string
	origin           string
	compressedSize   uint64
	uncompressedSize uint64
	hasUncompressed  bool
}

// openTarball validates that the file is a readable gzip tarball by
// reading its first entry header. Corruption anywhere in that path
// surfaces as an error so callers can fall back to a re-download.
func openTarball(path, origin string) (Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("archive %s is not a regular file", path)
	}

	file, err := os.Open(path) // #nosec G304 -- opening a cache file derived from the layout
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("invalid gzip archive %s: %w", path, err)
	}
	defer func() { _ = gzr.Close() }()

	if _, err := tar.NewReader(gzr).Next(); err != nil {
		return nil, fmt.Errorf("invalid tar archive %s: %w", path, err)
	}

	t := &tarball{
		path:           path,
		origin:         origin,
		compressedSize: uint64(info.Size()),
	}
	t.uncompressedSize, t.hasUncompressed = gzipUncompressedSize(file, info.Size())
	return t, nil
}

// gzipUncompressedSize reads the ISIZE trailer of a gzip stream. The
// field is modulo 2^32, so it is only a hint.
func gzipUncompressedSize(file *os.File, size int64) (uint64, bool) {
	if size < 18 {
		return 0, false
	}
	var trailer [4]byte
	if _, err := file.ReadAt(trailer[:], size-4); err != nil {
		return 0, false
	}
	return uint64(binary.LittleEndian.Uint32(trailer[:])), true
}

func (t *tarball) Origin() string { return t.origin }

func (t *tarball) CompressedSize() uint64 { return t.compressedSize }

func (t *tarball) UncompressedSize() (uint64, bool) {
	return t.uncompressedSize, t.hasUncompressed
}

// Unpack extracts the tarball into destDir. Progress is reported in
// compressed bytes consumed from the underlying file.
func (t *tarball) Unpack(destDir string, onProgress ProgressFunc) error {
	file, err := os.Open(t.path) // #nosec G304 -- extracting a validated cache file
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", t.path, err)
	}
	defer func() { _ = file.Close() }()

	gzr, err := gzip.NewReader(&countingReader{r: file, onProgress: onProgress})
	if err != nil {
		return fmt.Errorf("invalid gzip archive %s: %w", t.path, err)
	}
	defer func() { _ = gzr.Close() }()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}
		if err := extractTarEntry(tr, header, destDir); err != nil {
			return err
		}
	}
}

// extractTarEntry writes a single tar entry under destDir. Node
// distributions contain directories, regular files and symlinks (npm's
// bin entries are symlinks into lib/node_modules).
func extractTarEntry(tr *tar.Reader, header *tar.Header, destDir string) error {
	path := filepath.Join(destDir, header.Name) // #nosec G305 -- guarded by isPathSafe below
	if !isPathSafe(path, destDir) {
		return fmt.Errorf("invalid path in archive: %s", header.Name)
	}

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	case tar.TypeReg:
		if err := extractRegularFile(tr, header, path); err != nil {
			return err
		}
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
		}
		if err := os.Symlink(header.Linkname, path); err != nil && !os.IsExist(err) {
			return fmt.Errorf("failed to create symlink %s: %w", path, err)
		}
	}
	return nil
}

func extractRegularFile(tr *tar.Reader, header *tar.Header, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	outFile, err := os.Create(path) // #nosec G304 -- creating files during archive extraction
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	// #nosec G110 -- extracting a distribution archive the user asked for
	_, err = io.Copy(outFile, tr)
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	if err := os.Chmod(path, os.FileMode(header.Mode)); err != nil { // #nosec G115 -- tar modes fit in 32 bits
		return fmt.Errorf("failed to set permissions for %s: %w", path, err)
	}
	return nil
}

// countingReader reports bytes read from the wrapped reader.
type countingReader struct {
	r          io.Reader
	onProgress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.onProgress != nil {
		c.onProgress(n)
	}
	return n, err
}
