package iso9660

import (
	"errors"
	"fmt"
	"io"
)

// BlockReader is the only I/O boundary of the package.
type BlockReader interface {
	// ReadBlocks reads whole sectors starting at the given LBA into buf,
	// whose length must be a multiple of SectorSize. It returns the number
	// of bytes read; fewer than len(buf) only at the end of the medium.
	ReadBlocks(buf []byte, lba uint64) (int, error)
}

func checkBlockBuffer(buf []byte) error {
	if len(buf) == 0 || len(buf)%SectorSize != 0 {
		return &Error{Kind: KindIO, Err: fmt.Errorf("buffer length %d is not a multiple of %d", len(buf), SectorSize)}
	}
	return nil
}

// FileReader reads sectors with positioned reads, so the cursor of the
// wrapped file is never moved.
type FileReader struct {
	r io.ReaderAt
}

// NewFileReader wraps r, typically an *os.File.
func NewFileReader(r io.ReaderAt) *FileReader {
	return &FileReader{r: r}
}

func (f *FileReader) ReadBlocks(buf []byte, lba uint64) (int, error) {
	if err := checkBlockBuffer(buf); err != nil {
		return 0, err
	}
	n, err := f.r.ReadAt(buf, int64(lba)*SectorSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, err
	}
	return n, nil
}

// SeekReader is the fallback for sources without positioned reads. It
// seeks before every read, so it must not share its stream with anything
// else.
type SeekReader struct {
	rs io.ReadSeeker
}

func NewSeekReader(rs io.ReadSeeker) *SeekReader {
	return &SeekReader{rs: rs}
}

func (s *SeekReader) ReadBlocks(buf []byte, lba uint64) (int, error) {
	if err := checkBlockBuffer(buf); err != nil {
		return 0, err
	}
	if _, err := s.rs.Seek(int64(lba)*SectorSize, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(s.rs, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, err
	}
	return n, nil
}

// MemoryReader serves sectors from an in-memory image.
type MemoryReader struct {
	data []byte
}

func NewMemoryReader(data []byte) *MemoryReader {
	return &MemoryReader{data: data}
}

func (m *MemoryReader) ReadBlocks(buf []byte, lba uint64) (int, error) {
	if err := checkBlockBuffer(buf); err != nil {
		return 0, err
	}
	off := lba * SectorSize
	if off >= uint64(len(m.data)) {
		return 0, nil
	}
	return copy(buf, m.data[off:]), nil
}
