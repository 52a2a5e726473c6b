package release_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassbin/sassbin/internal/release"
)

type archiveEntry struct {
	name string
	body string
	mode os.FileMode
}

func buildTarGz(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, entry := range entries {
		require.NoError(t, tarWriter.WriteHeader(&tar.Header{
			Name:     entry.name,
			Mode:     int64(entry.mode),
			Size:     int64(len(entry.body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tarWriter.Write([]byte(entry.body))
		require.NoError(t, err)
	}

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

func buildZip(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:   entry.name,
			Method: zip.Deflate,
		}
		header.SetMode(entry.mode)

		writer, err := zipWriter.CreateHeader(header)
		require.NoError(t, err)
		_, err = writer.Write([]byte(entry.body))
		require.NoError(t, err)
	}

	require.NoError(t, zipWriter.Close())

	return buf.Bytes()
}

func TestExtractorFor(t *testing.T) {
	cases := map[string]struct {
		name        string
		expectedErr string
	}{
		"tar-gz": {
			name: "dart-sass-1.58.0-linux-x64.tar.gz",
		},
		"zip": {
			name: "dart-sass-1.58.0-windows-x64.zip",
		},
		"unknown": {
			name:        "dart-sass-1.58.0-linux-x64.tar.xz",
			expectedErr: "unsupported archive format: dart-sass-1.58.0-linux-x64.tar.xz",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			extractor, err := release.ExtractorFor(tc.name)
			if tc.expectedErr != "" {
				assert.EqualError(t, err, tc.expectedErr)
				assert.Nil(t, extractor)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, extractor)
			}
		})
	}
}

func TestExtract_TarGz(t *testing.T) {
	archive := buildTarGz(t, []archiveEntry{
		{name: "dart-sass/sass", body: "#!/bin/sh\necho sass\n", mode: 0755},
		{name: "dart-sass/src/LICENSE", body: "license text", mode: 0644},
	})

	destDir := t.TempDir()
	extractor, err := release.ExtractorFor("archive.tar.gz")
	require.NoError(t, err)
	require.NoError(t, extractor.Extract(archive, destDir))

	binPath := filepath.Join(destDir, "dart-sass", "sass")
	content, err := os.ReadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho sass\n", string(content))

	info, err := os.Stat(binPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0111, "executable bit must be preserved")

	assert.FileExists(t, filepath.Join(destDir, "dart-sass", "src", "LICENSE"))
}

func TestExtract_Zip(t *testing.T) {
	archive := buildZip(t, []archiveEntry{
		{name: "dart-sass/src/dart.exe", body: "vm binary", mode: 0755},
		{name: "dart-sass/src/sass.snapshot", body: "snapshot", mode: 0644},
	})

	destDir := t.TempDir()
	extractor, err := release.ExtractorFor("archive.zip")
	require.NoError(t, err)
	require.NoError(t, extractor.Extract(archive, destDir))

	vmPath := filepath.Join(destDir, "dart-sass", "src", "dart.exe")
	content, err := os.ReadFile(vmPath)
	require.NoError(t, err)
	assert.Equal(t, "vm binary", string(content))

	info, err := os.Stat(vmPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0111, "executable bit must be preserved")

	assert.FileExists(t, filepath.Join(destDir, "dart-sass", "src", "sass.snapshot"))
}

func TestExtract_TarGz_Corrupt(t *testing.T) {
	extractor, err := release.ExtractorFor("archive.tar.gz")
	require.NoError(t, err)

	err = extractor.Extract([]byte("not a gzip stream"), t.TempDir())
	assert.ErrorContains(t, err, "create gzip reader")
}

func TestExtract_Zip_Corrupt(t *testing.T) {
	extractor, err := release.ExtractorFor("archive.zip")
	require.NoError(t, err)

	err = extractor.Extract([]byte("not a zip archive"), t.TempDir())
	assert.ErrorContains(t, err, "open zip archive")
}

func TestExtract_TarGz_PathTraversal(t *testing.T) {
	archive := buildTarGz(t, []archiveEntry{
		{name: "../escape", body: "escaped", mode: 0644},
	})

	extractor, err := release.ExtractorFor("archive.tar.gz")
	require.NoError(t, err)

	err = extractor.Extract(archive, t.TempDir())
	assert.ErrorContains(t, err, "illegal archive entry path")
}
