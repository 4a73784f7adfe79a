// Package embedded gives every package access to the resources embedded by the
// root package.
//
// go:embed can only embed files below the declaring package's directory, so the
// embed.FS lives in the project root (embed.go) and is handed over here with Init.
// Paths passed to this package must start with "assets/".
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Root is the directory every embedded path starts with.
const Root = "assets"

var (
	// ErrNotInitialized is returned before Init has been called.
	ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")
	// ErrUnknownPrefix is returned for paths outside the assets directory.
	ErrUnknownPrefix = errors.New("unknown resource path prefix")
)

var (
	rootFS      fs.FS
	initialized bool
)

// Init sets the file system holding the assets directory.
// It must be called at the start of main, before any resource is loaded.
func Init(fsys fs.FS) {
	rootFS = fsys
	initialized = fsys != nil
}

// IsInitialized reports whether Init has been called with a file system.
func IsInitialized() bool {
	return initialized
}

// FS returns the assets directory as a file system rooted at "assets/", the form
// the asset managers expect.
func FS() (fs.FS, error) {
	return Sub(Root)
}

// normalize converts path to the slash-separated form embed.FS uses and checks
// that it lies in the assets directory.
func normalize(path string) (string, error) {
	if !initialized {
		return "", ErrNotInitialized
	}
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if path != Root && !strings.HasPrefix(path, Root+"/") {
		return "", fmt.Errorf("%w: %s (must start with '%s/')", ErrUnknownPrefix, path, Root)
	}
	return path, nil
}

// Open opens an embedded file.
func Open(path string) (fs.File, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return rootFS.Open(p)
}

// ReadFile reads an embedded file.
func ReadFile(path string) ([]byte, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(rootFS, p)
}

// Exists reports whether path names an embedded file or directory.
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob returns the embedded files matching pattern.
func Glob(pattern string) ([]string, error) {
	p, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(rootFS, p)
}

// ReadDir lists an embedded directory.
func ReadDir(path string) ([]fs.DirEntry, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(rootFS, p)
}

// Sub returns the file system rooted at dir.
func Sub(dir string) (fs.FS, error) {
	p, err := normalize(dir)
	if err != nil {
		return nil, err
	}
	return fs.Sub(rootFS, p)
}

// Stat describes an embedded file.
func Stat(path string) (fs.FileInfo, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return file.Stat()
}
