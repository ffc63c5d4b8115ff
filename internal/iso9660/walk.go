package iso9660

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// SkipDir may be returned by a WalkFunc to skip the directory it was
// called for. Returned for a file, it skips the rest of that file's parent.
var SkipDir = errors.New("skip this directory")

// ErrNotFound is returned by Lookup when a path component does not exist.
var ErrNotFound = errors.New("not found")

// ErrDirectoryLoop reports a directory whose extent is one of its own
// ancestors.
var ErrDirectoryLoop = invalidFS("directory extent loops to an ancestor")

// WalkFunc is called for every entry visited by Walk. When Contents of a
// directory fails, fn is called a second time for that directory with the
// error; returning nil skips the subtree and continues, any other error
// stops the walk.
type WalkFunc func(p string, entry Entry, err error) error

// Walk visits dir and everything below it depth first, in on-disk order,
// enumerating each directory only when it is reached. The self and parent
// records are not visited.
func Walk(dir *Directory, fn WalkFunc) error {
	err := fn("/", dir, nil)
	if err != nil {
		if errors.Is(err, SkipDir) {
			return nil
		}
		return err
	}
	err = walkDir("/", dir, map[uint32]bool{dir.header.ExtentLoc: true}, fn)
	if errors.Is(err, SkipDir) {
		return nil
	}
	return err
}

func walkDir(p string, dir *Directory, ancestors map[uint32]bool, fn WalkFunc) error {
	entries, err := dir.Contents()
	if err != nil {
		if err := fn(p, dir, err); err != nil && !errors.Is(err, SkipDir) {
			return err
		}
		return nil
	}

	for _, entry := range entries {
		sub, isDir := entry.(*Directory)
		if isDir && sub.IsSelfOrParent() {
			continue
		}

		child := path.Join(p, entry.Name())
		if err := fn(child, entry, nil); err != nil {
			if errors.Is(err, SkipDir) {
				if isDir {
					continue
				}
				return nil
			}
			return err
		}
		if !isDir {
			continue
		}

		loc := sub.header.ExtentLoc
		if ancestors[loc] {
			if err := fn(child, sub, ErrDirectoryLoop); err != nil && !errors.Is(err, SkipDir) {
				return err
			}
			continue
		}
		ancestors[loc] = true
		err := walkDir(child, sub, ancestors, fn)
		delete(ancestors, loc)
		if err != nil {
			return err
		}
	}
	return nil
}

// Lookup resolves a slash separated path from the root directory. Names
// match case-insensitively and a file's version suffix may be omitted.
func (img *Image) Lookup(p string) (Entry, error) {
	return Lookup(img.Root(), p)
}

// Lookup resolves p relative to dir.
func Lookup(dir *Directory, p string) (Entry, error) {
	var current Entry = dir
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." {
			continue
		}
		d, ok := current.(*Directory)
		if !ok {
			return nil, fmt.Errorf("%s: not a directory: %w", current.Name(), ErrNotFound)
		}
		entries, err := d.Contents()
		if err != nil {
			return nil, err
		}

		var found Entry
		for _, entry := range entries {
			if matchName(entry, part) {
				found = entry
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("%s: %w", part, ErrNotFound)
		}
		current = found
	}
	return current, nil
}

func matchName(entry Entry, name string) bool {
	if strings.EqualFold(entry.Name(), name) {
		return true
	}
	return !entry.IsDir() && strings.EqualFold(entry.Identifier(), name)
}
