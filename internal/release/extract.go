package release

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extractor unpacks one archive format into a destination directory.
type Extractor interface {
	// Extract unpacks the archive bytes into destDir, preserving nested
	// directories and executable permission bits.
	Extract(archive []byte, destDir string) error
}

// ExtractorFor selects the extractor matching an archive filename extension.
// It returns an error for unknown extensions.
func ExtractorFor(name string) (Extractor, error) {
	switch {
	case strings.HasSuffix(name, ".zip"):
		return zipExtractor{}, nil
	case strings.HasSuffix(name, ".tar.gz"):
		return tarGzExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", name)
	}
}

// tarGzExtractor unpacks gzip-compressed tar archives.
type tarGzExtractor struct{}

// Extract unpacks a .tar.gz archive into destDir.
func (tarGzExtractor) Extract(archive []byte, destDir string) error {
	gzipReader, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target, err := entryPath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeEntry(target, tarReader, os.FileMode(header.Mode)); err != nil {
				return err
			}

		default:
			// Skip symlinks and special files; release archives contain none.
			continue
		}
	}

	return nil
}

// zipExtractor unpacks zip archives.
type zipExtractor struct{}

// Extract unpacks a .zip archive into destDir.
func (zipExtractor) Extract(archive []byte, destDir string) error {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("open zip archive: %w", err)
	}

	for _, file := range reader.File {
		target, err := entryPath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		entry, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}

		err = writeEntry(target, entry, file.Mode())
		entry.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// entryPath joins an archive entry name onto destDir, rejecting entries that
// would escape it.
func entryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal archive entry path: %s", name)
	}

	return target, nil
}

// writeEntry writes one archive entry to target, creating parent directories
// and preserving the entry's permission bits.
func writeEntry(target string, content io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm.Perm())
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	return out.Close()
}
