// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNotDirectory is returned by WalkFiles when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// WalkFiles recursively visits every non-directory entry under rootPath in
// lexical order and calls fn with its full path. It never changes the
// process working directory. An error from fn stops the walk. The root must
// be a directory.
func WalkFiles(fsys afero.Fs, rootPath string, fn func(path string, info os.FileInfo) error) error {
	if fn == nil {
		panic("fn must not be nil")
	}

	info, err := fsys.Stat(rootPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "walk", Path: rootPath, Err: ErrNotDirectory}
	}

	return afero.Walk(fsys, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		return fn(path, info)
	})
}

// RelativeSlashPath returns target relative to base using forward slashes.
func RelativeSlashPath(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
