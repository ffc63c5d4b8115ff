package fs

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/s0up4200/go-isowalk/internal/iso9660"
)

// ISOFileSystemImpl implements ISOFileSystem on top of iso9660. Nothing is
// cached; every listing re-reads the directory extent.
type ISOFileSystemImpl struct {
	isoPath string
	image   *iso9660.Image
	log     logrus.FieldLogger
}

// NewISOFileSystem creates a new ISO file system reader.
func NewISOFileSystem() ISOFileSystem {
	return &ISOFileSystemImpl{log: logrus.StandardLogger()}
}

// NewISOFileSystemFromImage wraps an already opened image. Unmount does not
// close it.
func NewISOFileSystemFromImage(img *iso9660.Image) *ISOFileSystemImpl {
	return &ISOFileSystemImpl{image: img, log: logrus.StandardLogger()}
}

// Mount opens the ISO file and prepares it for reading.
func (fs *ISOFileSystemImpl) Mount(isoPath string) error {
	if fs.image != nil {
		return fmt.Errorf("ISO already mounted")
	}

	img, err := iso9660.OpenFile(isoPath)
	if err != nil {
		return err
	}
	fs.image = img
	fs.isoPath = isoPath
	fs.log.WithFields(logrus.Fields{
		"path":  isoPath,
		"label": img.VolumeLabel(),
	}).Debug("mounted ISO 9660 image")
	return nil
}

// Unmount closes the ISO file.
func (fs *ISOFileSystemImpl) Unmount() error {
	if fs.image == nil {
		return nil
	}
	var err error
	if fs.isoPath != "" {
		err = fs.image.Close()
	}
	fs.image = nil
	fs.isoPath = ""
	return err
}

// GetVolumeLabel returns the volume label of the ISO.
func (fs *ISOFileSystemImpl) GetVolumeLabel() string {
	if fs.image == nil {
		return ""
	}
	return fs.image.VolumeLabel()
}

// GetDirectoryInfo returns information about a directory in the ISO.
func (fs *ISOFileSystemImpl) GetDirectoryInfo(p string) (DirectoryInfo, error) {
	entry, err := fs.lookup(p)
	if err != nil {
		return nil, err
	}
	dir, ok := entry.(*iso9660.Directory)
	if !ok {
		return nil, fmt.Errorf("%s is not a directory", p)
	}
	return &isoDirectoryInfo{fullPath: normalizePath(p), fs: fs, dir: dir}, nil
}

// GetFileInfo returns information about a file in the ISO.
func (fs *ISOFileSystemImpl) GetFileInfo(p string) (FileInfo, error) {
	entry, err := fs.lookup(p)
	if err != nil {
		return nil, err
	}
	file, ok := entry.(*iso9660.File)
	if !ok {
		return nil, fmt.Errorf("%s is a directory, not a file", p)
	}
	return &isoFileInfo{name: file.Name(), fullPath: normalizePath(p), file: file}, nil
}

// IsISO returns true for ISO file system.
func (fs *ISOFileSystemImpl) IsISO() bool {
	return true
}

func (fs *ISOFileSystemImpl) lookup(p string) (iso9660.Entry, error) {
	if fs.image == nil {
		return nil, fmt.Errorf("ISO not mounted")
	}
	return fs.image.Lookup(normalizePath(p))
}

func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	return path.Clean("/" + p)
}

// isoFileInfo implements FileInfo for files within an ISO.
type isoFileInfo struct {
	name     string
	fullPath string
	file     *iso9660.File
}

func (f *isoFileInfo) Name() string {
	return f.name
}

func (f *isoFileInfo) FullName() string {
	return f.fullPath
}

func (f *isoFileInfo) Length() int64 {
	return f.file.Size()
}

func (f *isoFileInfo) Extension() string {
	return strings.ToLower(path.Ext(f.file.Name()))
}

func (f *isoFileInfo) IsDirectory() bool {
	return false
}

func (f *isoFileInfo) ModTime() time.Time {
	return f.file.ModTime()
}

func (f *isoFileInfo) OpenRead() (io.ReadCloser, error) {
	return f.file.Open()
}

// isoDirectoryInfo implements DirectoryInfo for directories within an ISO.
type isoDirectoryInfo struct {
	fullPath string
	fs       *ISOFileSystemImpl
	dir      *iso9660.Directory
}

func (d *isoDirectoryInfo) Name() string {
	if d.fullPath == "/" {
		return "/"
	}
	return path.Base(d.fullPath)
}

func (d *isoDirectoryInfo) FullName() string {
	return d.fullPath
}

func (d *isoDirectoryInfo) contents() ([]iso9660.Entry, error) {
	entries, err := d.dir.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.fullPath, err)
	}
	d.fs.log.WithFields(logrus.Fields{
		"path":    d.fullPath,
		"lba":     d.dir.Header().ExtentLoc,
		"length":  d.dir.Header().ExtentLength,
		"entries": len(entries),
	}).Debug("read directory")
	return entries, nil
}

func (d *isoDirectoryInfo) GetFiles() ([]FileInfo, error) {
	entries, err := d.contents()
	if err != nil {
		return nil, err
	}

	var found []*iso9660.File
	seen := map[string]int{}
	for _, entry := range entries {
		if f, ok := entry.(*iso9660.File); ok {
			found = append(found, f)
			seen[strings.ToUpper(f.Name())]++
		}
	}

	var files []FileInfo
	for _, f := range found {
		name := f.Name()
		if seen[strings.ToUpper(name)] > 1 {
			// several versions of one file keep their ;N suffix
			name = f.Identifier()
		}
		files = append(files, &isoFileInfo{
			name:     name,
			fullPath: path.Join(d.fullPath, name),
			file:     f,
		})
	}
	return files, nil
}

func (d *isoDirectoryInfo) GetDirectories() ([]DirectoryInfo, error) {
	entries, err := d.contents()
	if err != nil {
		return nil, err
	}

	var dirs []DirectoryInfo
	for _, entry := range entries {
		sub, ok := entry.(*iso9660.Directory)
		if !ok || sub.IsSelfOrParent() {
			continue
		}
		dirs = append(dirs, &isoDirectoryInfo{
			fullPath: path.Join(d.fullPath, sub.Name()),
			fs:       d.fs,
			dir:      sub,
		})
	}
	return dirs, nil
}

func (d *isoDirectoryInfo) GetFilesPattern(pattern string) ([]FileInfo, error) {
	files, err := d.GetFiles()
	if err != nil {
		return nil, err
	}
	return matchFiles(files, pattern)
}

func (d *isoDirectoryInfo) GetDirectory(name string) (DirectoryInfo, error) {
	return d.fs.GetDirectoryInfo(path.Join(d.fullPath, name))
}

func (d *isoDirectoryInfo) GetFile(name string) (FileInfo, error) {
	return d.fs.GetFileInfo(path.Join(d.fullPath, name))
}

func (d *isoDirectoryInfo) Exists() bool {
	_, err := d.fs.lookup(d.fullPath)
	return err == nil
}

// matchFiles filters files by a case-insensitive glob on their names.
func matchFiles(files []FileInfo, pattern string) ([]FileInfo, error) {
	var matches []FileInfo
	for _, file := range files {
		matched, err := filepath.Match(strings.ToUpper(pattern), strings.ToUpper(file.Name()))
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, file)
		}
	}
	return matches, nil
}
