package iso9660

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind uint8

const (
	// KindIO wraps a failure of the underlying BlockReader.
	KindIO Kind = iota + 1
	// KindUTF8 reports identifier bytes that are not valid UTF-8.
	KindUTF8
	// KindInvalidFS reports a structurally invalid volume.
	KindInvalidFS
	// KindShortRead reports a sector read that returned fewer bytes than asked.
	KindShortRead
	// KindParseInt reports a malformed numeric field, such as a file version.
	KindParseInt
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindUTF8:
		return "utf8"
	case KindInvalidFS:
		return "invalid filesystem"
	case KindShortRead:
		return "short read"
	case KindParseInt:
		return "parse int"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the single error type returned by this package.
type Error struct {
	Kind Kind
	// Reason is the static cause of a KindInvalidFS error.
	Reason string
	// Expected and Actual are byte counts of a KindShortRead error.
	Expected int
	Actual   int
	// Offset is the position of the first invalid byte of a KindUTF8 error.
	Offset int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIO:
		return fmt.Sprintf("iso9660: io error: %v", e.Err)
	case KindUTF8:
		return fmt.Sprintf("iso9660: identifier is not valid utf-8 at byte %d", e.Offset)
	case KindInvalidFS:
		return "iso9660: invalid filesystem: " + e.Reason
	case KindShortRead:
		return fmt.Sprintf("iso9660: short read: expected %d bytes, got %d", e.Expected, e.Actual)
	case KindParseInt:
		return fmt.Sprintf("iso9660: int parse error: %v", e.Err)
	default:
		return "iso9660: unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on Reason for KindInvalidFS targets that carry one.
// Counts and wrapped causes are ignored so the exported sentinels can be
// used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Reason == "" || e.Reason == t.Reason
}

var (
	ErrLengthTooShort      = invalidFS("length < 34")
	ErrLengthExceedsSector = invalidFS("length exceeds sector remainder")
	ErrLengthNotEven       = invalidFS("length not even")
	ErrIdentifierTooLong   = invalidFS("identifier length exceeds record length")
	ErrNoPrimaryVolume     = invalidFS("primary volume descriptor not found")
	ErrBadBlockSize        = invalidFS("logical block size is not 2048")
	ErrEndianMismatch      = invalidFS("both-endian halves disagree")

	ErrShortRead   = &Error{Kind: KindShortRead}
	ErrInvalidUTF8 = &Error{Kind: KindUTF8}

	errNilHandle = errors.New("handle has no reader")
)

func invalidFS(reason string) *Error {
	return &Error{Kind: KindInvalidFS, Reason: reason}
}

func ioError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIO, Err: err}
}

func shortRead(expected, actual int) error {
	return &Error{Kind: KindShortRead, Expected: expected, Actual: actual}
}

func asShortRead(err error, target **Error) bool {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindShortRead {
		*target = e
		return true
	}
	return false
}
