package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrUnsafeName is returned by Extract for a name from the image that does
// not stay inside the destination directory.
var ErrUnsafeName = errors.New("unsafe name")

// Extract copies the tree below src into dest, creating dest if needed, and
// returns the number of files written. Modification times are kept when the
// source has them. Names that are not a single local path element abort the
// extraction with ErrUnsafeName.
func Extract(src DirectoryInfo, dest string) (int, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, err
	}

	files, err := src.GetFiles()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, f := range files {
		if err := checkName(f.Name()); err != nil {
			return count, fmt.Errorf("failed to extract %s: %w", f.FullName(), err)
		}
		target := filepath.Join(dest, f.Name())
		if err := extractFile(f, target); err != nil {
			return count, fmt.Errorf("failed to extract %s: %w", f.FullName(), err)
		}
		logrus.WithFields(logrus.Fields{
			"source": f.FullName(),
			"target": target,
			"size":   f.Length(),
		}).Debug("extracted file")
		count++
	}

	dirs, err := src.GetDirectories()
	if err != nil {
		return count, err
	}
	for _, d := range dirs {
		if err := checkName(d.Name()); err != nil {
			return count, fmt.Errorf("failed to extract %s: %w", d.FullName(), err)
		}
		n, err := Extract(d, filepath.Join(dest, d.Name()))
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func extractFile(f FileInfo, target string) error {
	r, err := f.OpenRead()
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if mt := f.ModTime(); !mt.IsZero() {
		return os.Chtimes(target, mt, mt)
	}
	return nil
}

func checkName(name string) error {
	if name == "." || !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, ErrUnsafeName)
	}
	return nil
}
