// Package plan builds the immutable transfer plan: one eager walk of the
// source tree producing the ordered file list and the totals shown to the
// user before any byte is copied.
package plan

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Entry is a single regular file to transfer.
type Entry struct {
	SrcPath string // path as given to Scan plus the relative part
	RelPath string // path relative to the scanned root
	Size    int64
}

// Plan is the result of scanning a source tree. It is built once and
// read-only afterwards: TotalBytes is the sum of entry sizes and TotalFiles
// equals len(Entries).
type Plan struct {
	Entries    []Entry
	TotalFiles int64
	TotalBytes int64
}

// NotFoundError reports a source root that is missing or not a directory.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source %s: not found or not a directory", e.Path)
}

// Options control what the scanner records.
type Options struct {
	// Exclude holds glob patterns matched against each entry's relative path
	// and its base name. Matching files are skipped; matching directories
	// are not descended into.
	Exclude []string
}

// Scan walks root once, in lexical order, and records every regular file.
// Directories are traversed but not recorded; symlinks and other special
// entries are skipped. Returns *NotFoundError when root is missing or not a
// directory.
func Scan(root string, opts Options) (*Plan, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: root}
		}
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: root}
	}

	p := &Plan{}
	err = filepath.WalkDir(root, func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scan %s: %w", pth, err)
		}
		if pth == root {
			return nil
		}

		rel, err := filepath.Rel(root, pth)
		if err != nil {
			return fmt.Errorf("rel path for %s: %w", pth, err)
		}

		if excluded(rel, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", pth, err)
		}

		p.Entries = append(p.Entries, Entry{SrcPath: pth, RelPath: rel, Size: fi.Size()})
		p.TotalFiles++
		p.TotalBytes += fi.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func excluded(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}
