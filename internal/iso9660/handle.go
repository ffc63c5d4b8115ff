package iso9660

import "sync"

type sharedReader struct {
	mu sync.Mutex
	r  BlockReader
}

// Handle is a shared reference to one BlockReader. Every node derived from
// an image reads through a copy of the same Handle, and at most one read is
// in flight at a time.
type Handle struct {
	shared *sharedReader
}

// NewHandle wraps r.
func NewHandle(r BlockReader) Handle {
	return Handle{shared: &sharedReader{r: r}}
}

// Clone returns a handle to the same reader.
func (h Handle) Clone() Handle {
	return Handle{shared: h.shared}
}

// Same reports whether both handles reference the same reader.
func (h Handle) Same(o Handle) bool {
	return h.shared == o.shared
}

// ReadAt reads the block(s) at lba. I/O failures are returned as KindIO
// errors.
func (h Handle) ReadAt(buf []byte, lba uint64) (int, error) {
	if h.shared == nil {
		return 0, &Error{Kind: KindIO, Err: errNilHandle}
	}
	h.shared.mu.Lock()
	defer h.shared.mu.Unlock()

	n, err := h.shared.r.ReadBlocks(buf, lba)
	if err != nil {
		return n, ioError(err)
	}
	return n, nil
}

// readSector reads exactly one sector at lba into buf.
func (h Handle) readSector(buf []byte, lba uint64) error {
	n, err := h.ReadAt(buf[:SectorSize], lba)
	if err != nil {
		return err
	}
	if n != SectorSize {
		return shortRead(SectorSize, n)
	}
	return nil
}
