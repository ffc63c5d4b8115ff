package iso9660

import "encoding/binary"

// Multi-byte numbers are recorded twice, little-endian first. Only the
// little-endian half is read; a mismatch is not treated as an error.

func readBoth16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b[0:2])
}

func readBoth32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b[0:4])
}

// bothConsistent32 reports whether both halves of a dual-endian 32 bit
// field agree.
func bothConsistent32(b []byte) bool {
	return binary.LittleEndian.Uint32(b[0:4]) == binary.BigEndian.Uint32(b[4:8])
}

func bothConsistent16(b []byte) bool {
	return binary.LittleEndian.Uint16(b[0:2]) == binary.BigEndian.Uint16(b[2:4])
}
