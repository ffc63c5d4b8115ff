package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskFileSystem implements FileSystem for a directory tree on disk, such as
// an extracted image.
type DiskFileSystem struct {
	root string
}

// NewDiskFileSystem serves paths relative to root. An empty root serves
// paths as given.
func NewDiskFileSystem(root string) FileSystem {
	return &DiskFileSystem{root: root}
}

func (fs *DiskFileSystem) resolve(p string) string {
	if fs.root == "" {
		return p
	}
	return filepath.Join(fs.root, filepath.FromSlash(normalizePath(p)))
}

// GetDirectoryInfo returns information about a directory on disk.
func (fs *DiskFileSystem) GetDirectoryInfo(p string) (DirectoryInfo, error) {
	full := fs.resolve(p)
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", p)
	}
	return &diskDirectoryInfo{path: full}, nil
}

// GetFileInfo returns information about a file on disk.
func (fs *DiskFileSystem) GetFileInfo(p string) (FileInfo, error) {
	full := fs.resolve(p)
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", p)
	}
	return &diskFileInfo{path: full, info: info}, nil
}

// IsISO returns false for disk file system.
func (fs *DiskFileSystem) IsISO() bool {
	return false
}

type diskFileInfo struct {
	path string
	info os.FileInfo
}

func (f *diskFileInfo) Name() string       { return f.info.Name() }
func (f *diskFileInfo) FullName() string   { return f.path }
func (f *diskFileInfo) Length() int64      { return f.info.Size() }
func (f *diskFileInfo) Extension() string  { return strings.ToLower(filepath.Ext(f.path)) }
func (f *diskFileInfo) IsDirectory() bool  { return f.info.IsDir() }
func (f *diskFileInfo) ModTime() time.Time { return f.info.ModTime() }

func (f *diskFileInfo) OpenRead() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type diskDirectoryInfo struct {
	path string
}

func (d *diskDirectoryInfo) Name() string {
	return filepath.Base(d.path)
}

func (d *diskDirectoryInfo) FullName() string {
	return d.path
}

// readDir splits the directory into files and subdirectories, sorted by name.
func (d *diskDirectoryInfo) readDir() ([]FileInfo, []DirectoryInfo, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, nil, err
	}

	var files []FileInfo
	var dirs []DirectoryInfo
	for _, entry := range entries {
		full := filepath.Join(d.path, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, &diskDirectoryInfo{path: full})
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, nil, err
		}
		files = append(files, &diskFileInfo{path: full, info: info})
	}
	return files, dirs, nil
}

func (d *diskDirectoryInfo) GetFiles() ([]FileInfo, error) {
	files, _, err := d.readDir()
	return files, err
}

func (d *diskDirectoryInfo) GetDirectories() ([]DirectoryInfo, error) {
	_, dirs, err := d.readDir()
	return dirs, err
}

func (d *diskDirectoryInfo) GetFilesPattern(pattern string) ([]FileInfo, error) {
	files, err := d.GetFiles()
	if err != nil {
		return nil, err
	}
	return matchFiles(files, pattern)
}

func (d *diskDirectoryInfo) GetDirectory(name string) (DirectoryInfo, error) {
	p := filepath.Join(d.path, name)
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", name)
	}
	return &diskDirectoryInfo{path: p}, nil
}

func (d *diskDirectoryInfo) GetFile(name string) (FileInfo, error) {
	p := filepath.Join(d.path, name)
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", name)
	}
	return &diskFileInfo{path: p, info: info}, nil
}

func (d *diskDirectoryInfo) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}
