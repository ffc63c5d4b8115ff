package fs

import (
	"io"
	"time"
)

// FileInfo represents information about a file, on disk or inside an image.
type FileInfo interface {
	// Name returns the base name of the file. Inside an image the ;N version
	// suffix is dropped unless several versions share the name.
	Name() string

	// FullName returns the full path of the file.
	FullName() string

	// Length returns the size of the file in bytes.
	Length() int64

	// Extension returns the file extension (including the dot).
	Extension() string

	IsDirectory() bool

	ModTime() time.Time

	// OpenRead opens the file for reading.
	OpenRead() (io.ReadCloser, error)
}

// DirectoryInfo represents information about a directory.
type DirectoryInfo interface {
	Name() string
	FullName() string

	// GetFiles returns all files in the directory.
	GetFiles() ([]FileInfo, error)

	// GetDirectories returns all subdirectories, without "." and "..".
	GetDirectories() ([]DirectoryInfo, error)

	// GetFilesPattern returns files matching the given pattern (e.g., "*.TXT").
	GetFilesPattern(pattern string) ([]FileInfo, error)

	GetDirectory(name string) (DirectoryInfo, error)
	GetFile(name string) (FileInfo, error)

	Exists() bool
}

// FileSystem lets the same code compare or copy trees from an image and from
// a regular directory.
type FileSystem interface {
	GetDirectoryInfo(path string) (DirectoryInfo, error)
	GetFileInfo(path string) (FileInfo, error)

	// IsISO returns true if this is an ISO file system.
	IsISO() bool
}

// ISOFileSystem represents a file system within an ISO 9660 image.
type ISOFileSystem interface {
	FileSystem

	// Mount opens the image file and reads its volume descriptor.
	Mount(isoPath string) error

	Unmount() error

	GetVolumeLabel() string
}
