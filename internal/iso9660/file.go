package iso9660

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// File is a leaf node. Its data is only read through Open.
type File struct {
	header     Header
	identifier string
	name       string
	version    uint16
	handle     Handle
}

// newFile splits the ";N" version suffix off the identifier and drops the
// trailing dot of names without an extension.
func newFile(header Header, identifier string, handle Handle) (*File, error) {
	name := identifier
	version := uint16(1)
	if idx := strings.LastIndexByte(name, ';'); idx >= 0 {
		v, err := strconv.ParseUint(name[idx+1:], 10, 16)
		if err != nil {
			return nil, &Error{Kind: KindParseInt, Err: err}
		}
		version = uint16(v)
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, ".")

	return &File{
		header:     header,
		identifier: identifier,
		name:       name,
		version:    version,
		handle:     handle,
	}, nil
}

func (f *File) isEntry() {}

func (f *File) Header() Header {
	return f.header
}

// Identifier returns the identifier as recorded, version suffix included.
func (f *File) Identifier() string {
	return f.identifier
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Version() uint16 {
	return f.version
}

func (f *File) IsDir() bool {
	return false
}

func (f *File) Size() int64 {
	return int64(f.header.ExtentLength)
}

func (f *File) ModTime() time.Time {
	return f.header.Recorded
}

// Open returns a reader over the file extent.
func (f *File) Open() (io.ReadCloser, error) {
	return &fileReader{
		handle: f.handle,
		start:  uint64(f.header.ExtentLoc),
		size:   int64(f.header.ExtentLength),
		block:  make([]byte, SectorSize),
		cached: -1,
	}, nil
}

// fileReader reads a contiguous extent one sector at a time.
type fileReader struct {
	handle   Handle
	start    uint64
	size     int64
	position int64

	block  []byte
	cached int64
}

func (fr *fileReader) Read(p []byte) (n int, err error) {
	if fr.position >= fr.size {
		return 0, io.EOF
	}

	for n < len(p) && fr.position < fr.size {
		sector := fr.position / SectorSize
		if sector != fr.cached {
			if err := fr.handle.readSector(fr.block, fr.start+uint64(sector)); err != nil {
				// the final sector of an image may be cut short
				var rerr *Error
				if !asShortRead(err, &rerr) || fr.size-sector*SectorSize > int64(rerr.Actual) {
					return n, err
				}
			}
			fr.cached = sector
		}

		off := fr.position % SectorSize
		avail := min(int64(SectorSize)-off, fr.size-fr.position)
		c := copy(p[n:], fr.block[off:off+avail])
		n += c
		fr.position += int64(c)
	}

	if fr.position >= fr.size {
		return n, io.EOF
	}
	return n, nil
}

func (fr *fileReader) Close() error {
	// the handle belongs to the image
	return nil
}
