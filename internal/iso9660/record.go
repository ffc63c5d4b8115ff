package iso9660

import (
	"time"
	"unicode/utf8"
)

// Header is the fixed part of a directory record.
type Header struct {
	Length         uint8
	ExtAttrLength  uint8
	ExtentLoc      uint32
	ExtentLength   uint32
	Recorded       time.Time
	Flags          FileFlags
	FileUnitSize   uint8
	InterleaveGap  uint8
	VolumeSequence uint16
	IdentifierLen  uint8
}

// IsDirectory reports whether the record describes a directory.
func (h Header) IsDirectory() bool {
	return h.Flags.Has(FlagDirectory)
}

// decodeRecord decodes the directory record at the start of b. remaining is
// the number of bytes left in the current sector from the record's offset.
// A zero Length with a nil error is the end-of-sector sentinel.
//
// Besides IdentifierLen <= Length, the identifier must also fit after the
// 33-byte fixed part (33+IdentifierLen <= Length), so a 34-byte record with a
// 2-byte identifier fails with ErrIdentifierTooLong.
func decodeRecord(b []byte, remaining int) (Header, string, error) {
	var h Header
	if len(b) == 0 || remaining <= 0 {
		return h, "", nil
	}
	if remaining > len(b) {
		remaining = len(b)
	}

	h.Length = b[offLength]
	if h.Length == 0 {
		return h, "", nil
	}
	if h.Length < recordMinLength {
		return h, "", ErrLengthTooShort
	}
	if int(h.Length) > remaining {
		return h, "", ErrLengthExceedsSector
	}
	if h.Length%2 != 0 {
		return h, "", ErrLengthNotEven
	}

	rec := b[:h.Length]
	h.ExtAttrLength = rec[offExtAttrLength]
	h.ExtentLoc = readBoth32(rec[offExtentLoc:])
	h.ExtentLength = readBoth32(rec[offExtentLength:])
	h.Recorded = decodeRecordingTime(rec[offRecorded : offRecorded+recordingDateTimeSize])
	h.Flags = FileFlags(rec[offFlags])
	h.FileUnitSize = rec[offFileUnitSize]
	h.InterleaveGap = rec[offInterleaveGap]
	h.VolumeSequence = readBoth16(rec[offVolumeSequence:])
	h.IdentifierLen = rec[offIdentifierLen]

	if h.IdentifierLen > h.Length {
		return h, "", ErrIdentifierTooLong
	}
	end := offIdentifier + int(h.IdentifierLen)
	if end > len(rec) {
		return h, "", ErrIdentifierTooLong
	}

	ident := rec[offIdentifier:end]
	if !utf8.Valid(ident) {
		return h, "", &Error{Kind: KindUTF8, Offset: invalidUTF8Offset(ident)}
	}
	// Bytes after the identifier are padding and system use data.
	return h, string(ident), nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
