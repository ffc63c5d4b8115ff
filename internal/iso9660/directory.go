package iso9660

import "time"

// Entry is one child of a directory: either a *Directory or a *File.
type Entry interface {
	Header() Header
	Identifier() string
	Name() string
	IsDir() bool
	Size() int64
	ModTime() time.Time

	isEntry()
}

// Directory is a directory node. It is immutable; Contents reads the
// medium every time it is called.
type Directory struct {
	header     Header
	identifier string
	handle     Handle
}

// NewDirectory builds a directory node from a decoded header, for callers
// that bootstrap their own root record.
func NewDirectory(header Header, identifier string, handle Handle) *Directory {
	return &Directory{
		header:     header,
		identifier: identifier,
		handle:     handle,
	}
}

func (d *Directory) isEntry() {}

func (d *Directory) Header() Header {
	return d.header
}

// Identifier returns the raw identifier; "\x00" and "\x01" for the self and
// parent records.
func (d *Directory) Identifier() string {
	return d.identifier
}

// Name returns the identifier with the self and parent records spelled "."
// and "..".
func (d *Directory) Name() string {
	switch d.identifier {
	case SelfIdentifier:
		return "."
	case ParentIdentifier:
		return ".."
	}
	return d.identifier
}

func (d *Directory) IsDir() bool {
	return true
}

// IsSelfOrParent reports whether this is the "." or ".." record.
func (d *Directory) IsSelfOrParent() bool {
	return d.identifier == SelfIdentifier || d.identifier == ParentIdentifier
}

func (d *Directory) Size() int64 {
	return int64(d.header.ExtentLength)
}

func (d *Directory) ModTime() time.Time {
	return d.header.Recorded
}

// Handle returns the handle the directory reads through.
func (d *Directory) Handle() Handle {
	return d.handle
}

// sectorCount returns ceil(length / SectorSize).
func sectorCount(length uint32) uint32 {
	return uint32((uint64(length) + SectorSize - 1) / SectorSize)
}

// Contents reads the directory extent and returns its entries in on-disk
// order. The first error aborts the call and no entries are returned.
func (d *Directory) Contents() ([]Entry, error) {
	var entries []Entry

	loc := d.header.ExtentLoc
	length := d.header.ExtentLength
	blocks := sectorCount(length)
	block := make([]byte, SectorSize)

	for i := uint32(0); i < blocks; i++ {
		blockLen := min(length-SectorSize*i, SectorSize)
		if err := d.handle.readSector(block, uint64(loc)+uint64(i)); err != nil {
			return nil, err
		}

		pos := uint32(0)
		for pos < blockLen {
			header, ident, err := decodeRecord(block[pos:], int(SectorSize-pos))
			if err != nil {
				return nil, err
			}
			if header.Length == 0 {
				// the rest of the sector is padding
				break
			}
			pos += uint32(header.Length)

			entry, err := newEntry(header, ident, d.handle.Clone())
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func newEntry(header Header, ident string, handle Handle) (Entry, error) {
	if header.IsDirectory() {
		return NewDirectory(header, ident, handle), nil
	}
	return newFile(header, ident, handle)
}
