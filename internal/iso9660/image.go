package iso9660

import (
	"fmt"
	"io"
	"os"
)

// Image is an opened ISO 9660 volume.
type Image struct {
	handle  Handle
	volume  *PrimaryVolume
	closer  io.Closer
	rootDir *Directory
}

// Open bootstraps an image from the primary volume descriptor of r.
func Open(r BlockReader) (*Image, error) {
	h := NewHandle(r)
	pv, err := readPrimaryVolume(h)
	if err != nil {
		return nil, err
	}
	return &Image{
		handle:  h,
		volume:  pv,
		rootDir: NewDirectory(pv.Root, pv.RootIdentifier, h.Clone()),
	}, nil
}

// OpenFile opens the image file at path. The returned image owns the file.
func OpenFile(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ISO file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	img, err := Open(NewFileReader(file))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("not a valid ISO 9660 volume: %w", err)
	}
	img.closer = file
	return img, nil
}

// Close releases the underlying file, if the image owns one. Nodes derived
// from the image must not be used afterwards.
func (img *Image) Close() error {
	if img.closer != nil {
		err := img.closer.Close()
		img.closer = nil
		return err
	}
	return nil
}

// Root returns the root directory.
func (img *Image) Root() *Directory {
	return img.rootDir
}

// Volume returns the decoded primary volume descriptor.
func (img *Image) Volume() PrimaryVolume {
	return *img.volume
}

// VolumeLabel returns the volume identifier.
func (img *Image) VolumeLabel() string {
	return img.volume.VolumeIdentifier
}

// Handle returns the image's shared reader handle.
func (img *Image) Handle() Handle {
	return img.handle
}
