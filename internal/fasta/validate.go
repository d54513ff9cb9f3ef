// internal/fasta/validate.go
package fasta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension is the suffix of locus files in a schema directory.
const DefaultExtension = ".fasta"

// ErrDirectoryNotFound is returned when a schema or output path is missing
// or is not a directory.
var ErrDirectoryNotFound = errors.New("directory not found")

// File is one extension-matching entry of a schema directory.
type File struct {
	Path    string
	Locus   string // base name without the extension
	Valid   bool
	Headers int   // '>' lines counted by Check
	Err     error // why the file is not valid; nil when Valid
}

// ListDir lists the entries of dir ending in ext, sorted by name, without
// reading them. Symlinks are followed; entries that resolve to anything but
// a regular file are left out. A dangling link is kept so Check reports it.
func ListDir(dir, ext string) ([]File, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	if err := RequireDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		fi, err := os.Stat(filepath.Join(dir, e.Name()))
		if err == nil && !fi.Mode().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]File, 0, len(names))
	for _, name := range names {
		files = append(files, File{
			Path:  filepath.Join(dir, name),
			Locus: strings.TrimSuffix(name, ext),
		})
	}
	return files, nil
}

// Check sets Valid, Headers and Err from the content of f.Path.
func (f *File) Check() {
	f.Headers, f.Err = check(f.Path)
	f.Valid = f.Err == nil
}

// ScanDir is ListDir followed by Check on every file.
func ScanDir(dir, ext string) ([]File, error) {
	files, err := ListDir(dir, ext)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Check()
	}
	return files, nil
}

// ListValidFiles returns the sorted paths of usable locus files in dir.
// An empty result with a nil error means dir holds no valid FASTA.
func ListValidFiles(dir, ext string) ([]string, error) {
	files, err := ScanDir(dir, ext)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if f.Valid {
			out = append(out, f.Path)
		}
	}
	return out, nil
}

// IsFasta reports whether path starts with a parsable FASTA record. Only the
// first record is parsed. Parse failures are reported as (false, err
// wrapping ErrInvalidFasta); I/O failures as (false, err).
func IsFasta(path string) (bool, error) {
	if _, err := check(path); err != nil {
		return false, err
	}
	return true, nil
}

func check(path string) (int, error) {
	n, err := CountHeaders(path)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%s: %w: no header lines", path, ErrInvalidFasta)
	}

	rc, err := openReader(path)
	if err != nil {
		return n, err
	}
	defer rc.Close()
	if err := parseFirst(rc); err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// RequireDir returns ErrDirectoryNotFound unless dir exists and is a directory.
func RequireDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", dir, ErrDirectoryNotFound)
		}
		return fmt.Errorf("%s: %w: %v", dir, ErrDirectoryNotFound, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: %w: not a directory", dir, ErrDirectoryNotFound)
	}
	return nil
}
