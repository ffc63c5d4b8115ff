package iso9660

// ISO 9660 (ECMA-119) constants
const (
	// Sector size for optical media
	SectorSize = 2048

	// Volume descriptors start at sector 16
	VolumeDescriptorStart = 16

	StandardIdentifier = "CD001"

	// Volume descriptor types
	VolumeTypeBootRecord    = 0
	VolumeTypePrimary       = 1
	VolumeTypeSupplementary = 2
	VolumeTypePartition     = 3
	VolumeTypeTerminator    = 255

	// Directory record layout
	recordMinLength       = 34
	recordHeaderLength    = 33
	offLength             = 0
	offExtAttrLength      = 1
	offExtentLoc          = 2
	offExtentLength       = 10
	offRecorded           = 18
	offFlags              = 25
	offFileUnitSize       = 26
	offInterleaveGap      = 27
	offVolumeSequence     = 28
	offIdentifierLen      = 32
	offIdentifier         = 33
	recordingDateTimeSize = 7

	// Primary volume descriptor layout
	pvdOffVolumeID        = 40
	pvdVolumeIDLen        = 32
	pvdOffSystemID        = 8
	pvdSystemIDLen        = 32
	pvdOffVolumeSpaceSize = 80
	pvdOffBlockSize       = 128
	pvdOffRootRecord      = 156

	// Identifiers of the self and parent records
	SelfIdentifier   = "\x00"
	ParentIdentifier = "\x01"
)

// FileFlags is the flag byte of a directory record.
type FileFlags uint8

const (
	FlagHidden      FileFlags = 0x01
	FlagDirectory   FileFlags = 0x02
	FlagAssociated  FileFlags = 0x04
	FlagRecord      FileFlags = 0x08
	FlagProtection  FileFlags = 0x10
	FlagMultiExtent FileFlags = 0x80
)

func (f FileFlags) Has(flag FileFlags) bool {
	return f&flag != 0
}
