package iso9660

import (
	"bytes"
	"fmt"
	"strings"
)

// maxVolumeDescriptors bounds the descriptor scan on media without a set
// terminator.
const maxVolumeDescriptors = 64

// PrimaryVolume holds the fields of the primary volume descriptor this
// package uses.
type PrimaryVolume struct {
	SystemIdentifier string
	VolumeIdentifier string
	VolumeSpaceSize  uint32
	LogicalBlockSize uint16
	Root             Header
	RootIdentifier   string
}

// readPrimaryVolume scans the volume descriptor set starting at sector 16
// and decodes the first primary volume descriptor.
func readPrimaryVolume(h Handle) (*PrimaryVolume, error) {
	buf := make([]byte, SectorSize)
	for i := 0; i < maxVolumeDescriptors; i++ {
		lba := uint64(VolumeDescriptorStart + i)
		if err := h.readSector(buf, lba); err != nil {
			return nil, fmt.Errorf("volume descriptor at sector %d: %w", lba, err)
		}
		if string(buf[1:6]) != StandardIdentifier {
			return nil, fmt.Errorf("volume descriptor at sector %d: %w", lba, ErrNoPrimaryVolume)
		}

		switch buf[0] {
		case VolumeTypePrimary:
			return decodePrimaryVolume(buf)
		case VolumeTypeTerminator:
			return nil, ErrNoPrimaryVolume
		default:
			// boot record, supplementary and partition descriptors are skipped
		}
	}
	return nil, ErrNoPrimaryVolume
}

func decodePrimaryVolume(b []byte) (*PrimaryVolume, error) {
	if !bothConsistent32(b[pvdOffVolumeSpaceSize:]) || !bothConsistent16(b[pvdOffBlockSize:]) {
		return nil, ErrEndianMismatch
	}
	pv := &PrimaryVolume{
		SystemIdentifier: trimPadded(b[pvdOffSystemID : pvdOffSystemID+pvdSystemIDLen]),
		VolumeIdentifier: trimPadded(b[pvdOffVolumeID : pvdOffVolumeID+pvdVolumeIDLen]),
		VolumeSpaceSize:  readBoth32(b[pvdOffVolumeSpaceSize:]),
		LogicalBlockSize: readBoth16(b[pvdOffBlockSize:]),
	}
	if pv.LogicalBlockSize != SectorSize {
		return nil, ErrBadBlockSize
	}

	root, ident, err := decodeRecord(b[pvdOffRootRecord:pvdOffRootRecord+recordMinLength], recordMinLength)
	if err != nil {
		return nil, fmt.Errorf("root directory record: %w", err)
	}
	if root.Length == 0 {
		return nil, invalidFS("empty root directory record")
	}
	pv.Root = root
	pv.RootIdentifier = ident
	return pv, nil
}

func trimPadded(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	return strings.TrimRight(string(b), " ")
}
