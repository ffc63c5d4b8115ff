package fs

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

type DiffKind int

const (
	DiffMissing DiffKind = iota
	DiffExtra
	DiffSize
	DiffContent
)

func (k DiffKind) String() string {
	switch k {
	case DiffMissing:
		return "missing"
	case DiffExtra:
		return "extra"
	case DiffSize:
		return "size"
	case DiffContent:
		return "content"
	default:
		return fmt.Sprintf("DiffKind(%d)", int(k))
	}
}

// Difference is one mismatch found by Compare.
type Difference struct {
	Path   string
	Kind   DiffKind
	Detail string
}

func (d Difference) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Path)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Path, d.Detail)
}

// Compare walks want and got from their roots and reports every file or
// directory that differs. Names match case-insensitively. A non-empty pattern
// restricts the compared files.
func Compare(want, got FileSystem, pattern string) ([]Difference, error) {
	a, err := want.GetDirectoryInfo("/")
	if err != nil {
		return nil, err
	}
	b, err := got.GetDirectoryInfo("/")
	if err != nil {
		return nil, err
	}
	var diffs []Difference
	err = compareDir(a, b, "/", pattern, &diffs)
	return diffs, err
}

func compareDir(a, b DirectoryInfo, rel, pattern string, diffs *[]Difference) error {
	filesA, err := listFiles(a, pattern)
	if err != nil {
		return err
	}
	filesB, err := listFiles(b, pattern)
	if err != nil {
		return err
	}

	byName := map[string]FileInfo{}
	for _, f := range filesB {
		byName[strings.ToUpper(f.Name())] = f
	}
	for _, fa := range filesA {
		p := path.Join(rel, fa.Name())
		key := strings.ToUpper(fa.Name())
		fb, ok := byName[key]
		if !ok {
			*diffs = append(*diffs, Difference{Path: p, Kind: DiffMissing})
			continue
		}
		delete(byName, key)

		if fa.Length() != fb.Length() {
			*diffs = append(*diffs, Difference{
				Path:   p,
				Kind:   DiffSize,
				Detail: fmt.Sprintf("%d != %d", fa.Length(), fb.Length()),
			})
			continue
		}
		same, err := sameContent(fa, fb)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if !same {
			*diffs = append(*diffs, Difference{Path: p, Kind: DiffContent})
		}
	}
	for _, fb := range filesB {
		if _, ok := byName[strings.ToUpper(fb.Name())]; ok {
			*diffs = append(*diffs, Difference{Path: path.Join(rel, fb.Name()), Kind: DiffExtra})
		}
	}

	dirsA, err := a.GetDirectories()
	if err != nil {
		return err
	}
	dirsB, err := b.GetDirectories()
	if err != nil {
		return err
	}
	subB := map[string]DirectoryInfo{}
	for _, d := range dirsB {
		subB[strings.ToUpper(d.Name())] = d
	}
	for _, da := range dirsA {
		p := path.Join(rel, da.Name())
		key := strings.ToUpper(da.Name())
		db, ok := subB[key]
		if !ok {
			*diffs = append(*diffs, Difference{Path: p + "/", Kind: DiffMissing})
			continue
		}
		delete(subB, key)
		logrus.WithField("path", p).Debug("comparing directory")
		if err := compareDir(da, db, p, pattern, diffs); err != nil {
			return err
		}
	}
	for _, db := range dirsB {
		if _, ok := subB[strings.ToUpper(db.Name())]; ok {
			*diffs = append(*diffs, Difference{Path: path.Join(rel, db.Name()) + "/", Kind: DiffExtra})
		}
	}
	return nil
}

func listFiles(d DirectoryInfo, pattern string) ([]FileInfo, error) {
	if pattern == "" {
		return d.GetFiles()
	}
	return d.GetFilesPattern(pattern)
}

func sameContent(a, b FileInfo) (bool, error) {
	ra, err := a.OpenRead()
	if err != nil {
		return false, err
	}
	defer ra.Close()
	rb, err := b.OpenRead()
	if err != nil {
		return false, err
	}
	defer rb.Close()

	bufA := make([]byte, 64*1024)
	bufB := make([]byte, 64*1024)
	for {
		na, errA := io.ReadFull(ra, bufA)
		nb, errB := io.ReadFull(rb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		if doneA || doneB {
			return doneA == doneB, nil
		}
	}
}
