package zoneinfo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ngrash/go-localtime/zone"
)

// Resolver maps a zone name to the bytes of its compiled zone file.
// Failures wrap zone.ErrIO.
type Resolver interface {
	Resolve(name string) ([]byte, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) ([]byte, error)

func (f ResolverFunc) Resolve(name string) ([]byte, error) { return f(name) }

// DefaultDirs are the directories searched by the zero DirResolver.
var DefaultDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// DirResolver looks relative names up in Dirs, in order. A leading ':'
// is ignored and absolute names are read as they are.
type DirResolver struct {
	Dirs []string
}

func (r DirResolver) Resolve(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, ":")
	if name == "" {
		return nil, fmt.Errorf("%w: empty zone name", zone.ErrIO)
	}
	if filepath.IsAbs(name) {
		return readFile(name)
	}
	if containsDotDot(name) {
		return nil, fmt.Errorf("%w: invalid zone name %q", zone.ErrIO, name)
	}
	dirs := r.Dirs
	if dirs == nil {
		dirs = DefaultDirs
	}
	var errs []error
	for _, dir := range dirs {
		b, err := readFile(filepath.Join(dir, name))
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s: no zone directories", zone.ErrIO, name)
	}
	return nil, errors.Join(errs...)
}

func readFile(name string) ([]byte, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", zone.ErrIO, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", zone.ErrIO, name)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", zone.ErrIO, err)
	}
	return b, nil
}

// FSResolver looks names up in a file system, such as an embedded copy of
// the zone database.
type FSResolver struct {
	FS fs.FS
}

func (r FSResolver) Resolve(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, ":")
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: invalid zone name %q", zone.ErrIO, name)
	}
	b, err := fs.ReadFile(r.FS, path.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", zone.ErrIO, err)
	}
	return b, nil
}

// containsDotDot reports whether s has a ".." path element.
func containsDotDot(s string) bool {
	for _, elem := range strings.Split(filepath.ToSlash(s), "/") {
		if elem == ".." {
			return true
		}
	}
	return false
}
