package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	errs "gindownload/pkg/errors"
)

// SuffixLen is the length of the fixed "<rate>.<rate>" file name suffix
const SuffixLen = 7

// TempSuffix is appended to a destination while it is being written
const TempSuffix = ".part"

// EnsureDir creates path and any missing parents. An existing directory is
// success; an existing non-directory is not.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errs.New(errs.ErrorTypeDirectory, "mkdir", path, err)
	}
	return nil
}

// RemoveStale deletes a leftover destination file. A missing file is fine.
func RemoveStale(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errs.New(errs.ErrorTypeRemove, "remove", path, err)
	}
	return nil
}

// TempFile is a ".part" file that becomes its destination on Commit
type TempFile struct {
	*os.File
	dest string
}

// CreateTemp creates (or truncates) the temporary sibling of dest
func CreateTemp(dest string) (*TempFile, error) {
	f, err := os.Create(dest + TempSuffix)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeIO, "create", dest+TempSuffix, err)
	}
	return &TempFile{File: f, dest: dest}, nil
}

// Commit flushes the file and renames it over its destination
func (t *TempFile) Commit() error {
	if err := t.Sync(); err != nil {
		t.Discard()
		return errs.New(errs.ErrorTypeIO, "sync", t.Name(), err)
	}
	if err := t.Close(); err != nil {
		os.Remove(t.Name())
		return errs.New(errs.ErrorTypeIO, "close", t.Name(), err)
	}
	if err := os.Rename(t.Name(), t.dest); err != nil {
		os.Remove(t.Name())
		return errs.New(errs.ErrorTypeIO, "commit", t.dest, err)
	}
	return nil
}

// Discard closes and removes the temporary file
func (t *TempFile) Discard() {
	t.Close()
	os.Remove(t.Name())
}

// WriteAtomic copies r into dest through a temporary file
func WriteAtomic(dest string, r io.Reader) (int64, error) {
	tmp, err := CreateTemp(dest)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Discard()
		return n, errs.New(errs.ErrorTypeIO, "write", dest, err)
	}
	return n, tmp.Commit()
}

// SpliceDesignator inserts d in front of the 7-character suffix of name,
// turning pet2017min.min into pet2017dmin.min
func SpliceDesignator(name string, d rune) (string, error) {
	if len(name) <= SuffixLen {
		return "", errs.Newf(errs.ErrorTypePrecondition, "splice", name,
			"name must be longer than the %d-character suffix", SuffixLen)
	}
	cut := len(name) - SuffixLen
	if name[cut+3] != '.' {
		return "", errs.Newf(errs.ErrorTypePrecondition, "splice", name,
			"suffix %q is not shaped like min.min", name[cut:])
	}
	return fmt.Sprintf("%s%c%s", name[:cut], d, name[cut:]), nil
}

// RenameWithDesignator renames path to carry designator d and returns the new
// path. Any file already at the new path is replaced.
func RenameWithDesignator(path string, d rune) (string, error) {
	name, err := SpliceDesignator(filepath.Base(path), d)
	if err != nil {
		return "", err
	}
	newPath := filepath.Join(filepath.Dir(path), name)

	if err := os.Remove(newPath); err != nil && !os.IsNotExist(err) {
		return "", errs.New(errs.ErrorTypeRename, "rename", newPath, err)
	}
	if err := os.Rename(path, newPath); err != nil {
		return "", errs.New(errs.ErrorTypeRename, "rename", path, err)
	}
	return newPath, nil
}
