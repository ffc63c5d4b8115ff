package iso9660

import (
	"encoding/binary"
	"errors"
)

type testRecord struct {
	length   int // 0 means computed from the identifier
	idLen    int // -1 means len(ident)
	loc      uint32
	size     uint32
	flags    FileFlags
	ident    string
	recorded [7]byte
}

func dirRecord(ident string, loc, size uint32) testRecord {
	return testRecord{idLen: -1, loc: loc, size: size, flags: FlagDirectory, ident: ident}
}

func fileRecord(ident string, loc, size uint32) testRecord {
	return testRecord{idLen: -1, loc: loc, size: size, ident: ident}
}

func (r testRecord) bytes() []byte {
	n := r.length
	if n == 0 {
		n = recordHeaderLength + len(r.ident)
		if n%2 == 1 {
			n++
		}
	}
	idLen := r.idLen
	if idLen < 0 {
		idLen = len(r.ident)
	}
	size := max(n, recordHeaderLength+len(r.ident))
	b := make([]byte, size)
	b[offLength] = byte(n)
	binary.LittleEndian.PutUint32(b[offExtentLoc:], r.loc)
	binary.BigEndian.PutUint32(b[offExtentLoc+4:], r.loc)
	binary.LittleEndian.PutUint32(b[offExtentLength:], r.size)
	binary.BigEndian.PutUint32(b[offExtentLength+4:], r.size)
	copy(b[offRecorded:], r.recorded[:])
	b[offFlags] = byte(r.flags)
	binary.LittleEndian.PutUint16(b[offVolumeSequence:], 1)
	binary.BigEndian.PutUint16(b[offVolumeSequence+2:], 1)
	b[offIdentifierLen] = byte(idLen)
	copy(b[offIdentifier:], r.ident)
	return b
}

// sector lays records out back to back in one zero padded sector.
func sector(records ...testRecord) []byte {
	s := make([]byte, SectorSize)
	pos := 0
	for _, r := range records {
		pos += copy(s[pos:], r.bytes())
	}
	return s
}

// memImage is a sparse in-memory image builder.
type memImage struct {
	data []byte
}

func newMemImage(sectors int) *memImage {
	return &memImage{data: make([]byte, sectors*SectorSize)}
}

func (m *memImage) put(lba int, b []byte) {
	copy(m.data[lba*SectorSize:], b)
}

func (m *memImage) handle() Handle {
	return NewHandle(NewMemoryReader(m.data))
}

// putPrimaryVolume writes a primary volume descriptor and set terminator.
func (m *memImage) putPrimaryVolume(label string, root testRecord) {
	pvd := make([]byte, SectorSize)
	pvd[0] = VolumeTypePrimary
	copy(pvd[1:], StandardIdentifier)
	pvd[6] = 1
	copy(pvd[pvdOffVolumeID:pvdOffVolumeID+pvdVolumeIDLen], padRight(label, pvdVolumeIDLen))
	total := uint32(len(m.data) / SectorSize)
	binary.LittleEndian.PutUint32(pvd[pvdOffVolumeSpaceSize:], total)
	binary.BigEndian.PutUint32(pvd[pvdOffVolumeSpaceSize+4:], total)
	binary.LittleEndian.PutUint16(pvd[pvdOffBlockSize:], SectorSize)
	binary.BigEndian.PutUint16(pvd[pvdOffBlockSize+2:], SectorSize)
	copy(pvd[pvdOffRootRecord:], root.bytes())
	m.put(VolumeDescriptorStart, pvd)

	term := make([]byte, SectorSize)
	term[0] = VolumeTypeTerminator
	copy(term[1:], StandardIdentifier)
	term[6] = 1
	m.put(VolumeDescriptorStart+1, term)
}

func padRight(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}

type failingReader struct {
	err error
}

func (f failingReader) ReadBlocks(buf []byte, lba uint64) (int, error) {
	return 0, f.err
}

// countingReader records every LBA read through it.
type countingReader struct {
	BlockReader
	reads []uint64
}

func (c *countingReader) ReadBlocks(buf []byte, lba uint64) (int, error) {
	c.reads = append(c.reads, lba)
	return c.BlockReader.ReadBlocks(buf, lba)
}

var errBoom = errors.New("boom")

func (r testRecord) header() Header {
	h, _, err := decodeRecord(r.bytes(), SectorSize)
	if err != nil {
		panic(err)
	}
	return h
}
