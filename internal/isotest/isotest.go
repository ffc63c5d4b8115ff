// Package isotest builds ISO 9660 images for tests.
package isotest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/iso9660"
	"github.com/rn/iso9660wrap"
	"github.com/stretchr/testify/require"
)

const imageSize = 10 * 1024 * 1024

// Tree describes the contents of an image. Directory and file paths are
// absolute; parents of files must be listed in Dirs.
type Tree struct {
	Label string
	Dirs  []string
	Files map[string]string
}

// Build writes tree to a new image file under t.TempDir and returns its path.
func Build(t testing.TB, tree Tree) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "image.iso")

	d, err := diskfs.Create(p, imageSize, diskfs.Raw)
	require.NoError(t, err)
	d.LogicalBlocksize = 2048

	fs, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeISO9660,
		VolumeLabel: tree.Label,
		WorkDir:     t.TempDir(),
	})
	require.NoError(t, err)

	for _, dir := range tree.Dirs {
		require.NoError(t, fs.Mkdir(dir))
	}
	for name, content := range tree.Files {
		rw, err := fs.OpenFile(name, os.O_CREATE|os.O_RDWR)
		require.NoError(t, err)
		_, err = rw.Write([]byte(content))
		require.NoError(t, err)
	}

	iso, ok := fs.(*iso9660.FileSystem)
	require.True(t, ok, "not an iso9660 filesystem: %T", fs)
	require.NoError(t, iso.Finalize(iso9660.FinalizeOptions{VolumeIdentifier: tree.Label}))
	require.NoError(t, d.File.Close())
	return p
}

// Wrap returns an image holding data as a single root file called name.
func Wrap(t testing.TB, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, iso9660wrap.WriteBuffer(&buf, data, name))
	return buf.Bytes()
}

// Corrupt overwrites the image at path with b starting at off.
func Corrupt(t testing.TB, path string, off int64, b []byte) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	_, err = f.WriteAt(b, off)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// Replace rewrites every occurrence of from in the image at path with to,
// which must be the same length.
func Replace(t testing.TB, path, from, to string) {
	t.Helper()
	require.Len(t, to, len(from))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.Contains(data, []byte(from)), "%q not found in image", from)
	require.NoError(t, os.WriteFile(path, bytes.ReplaceAll(data, []byte(from), []byte(to)), 0o644))
}
