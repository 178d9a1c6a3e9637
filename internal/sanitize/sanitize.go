package sanitize

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/driftline/ferry/internal/fsys"
)

// Clean replaces every rune of name that is in forbidden with '_'. Rune count
// and ordering are preserved; everything outside the set passes through
// untouched. Clean is idempotent because '_' is never a forbidden character
// in any known profile.
func Clean(name string, forbidden fsys.CharSet) string {
	changed := false
	runes := []rune(name)
	for i, r := range runes {
		if forbidden.Contains(r) {
			runes[i] = '_'
			changed = true
		}
	}
	if !changed {
		return name
	}
	return string(runes)
}

// Resolver rewrites source-relative paths into destination-relative paths
// that are legal under one filesystem profile and unique within one transfer
// run. Sanitization is many-to-one ("a:b.txt" and "a_b.txt" both clean to
// "a_b.txt"), so the resolver tracks every path it has handed out and
// disambiguates repeats with a numeric suffix before the extension. Files
// and directories share one namespace: a file never lands on a path already
// materialized as a directory, and vice versa.
type Resolver struct {
	forbidden fsys.CharSet
	files     map[string]struct{}
	dirs      map[string]struct{}
	dirActual map[string]string // sanitized dir path -> assigned dir path
}

// NewResolver creates a resolver scoped to a single run against profile.
func NewResolver(profile fsys.Profile) *Resolver {
	return &Resolver{
		forbidden: profile.Forbidden(),
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		dirActual: make(map[string]string),
	}
}

// Resolve sanitizes every component of relPath and claims a unique
// destination-relative path for it. Directory components that clean to the
// same name merge; file paths never do. Two distinct inputs are guaranteed
// two distinct outputs for the lifetime of the resolver.
func (r *Resolver) Resolve(relPath string) string {
	comps := strings.Split(filepath.ToSlash(relPath), "/")
	for i, c := range comps {
		comps[i] = Clean(c, r.forbidden)
	}

	var dir string
	for _, c := range comps[:len(comps)-1] {
		dir = r.claimDir(path.Join(dir, c))
	}
	base := comps[len(comps)-1]

	candidate := path.Join(dir, base)
	for n := 1; r.taken(candidate); n++ {
		candidate = path.Join(dir, numbered(base, n))
	}
	r.files[candidate] = struct{}{}
	return filepath.FromSlash(candidate)
}

// claimDir records p as a directory, diverting to a numbered variant when an
// earlier file already holds the name. Directories cleaning to the same path
// merge: the first claim decides, and every later entry under the same
// sanitized directory follows it.
func (r *Resolver) claimDir(p string) string {
	if actual, ok := r.dirActual[p]; ok {
		return actual
	}

	actual := p
	if _, isFile := r.files[p]; isFile {
		parent, base := path.Split(p)
		for n := 1; ; n++ {
			actual = path.Join(parent, numbered(base, n))
			if !r.taken(actual) {
				break
			}
		}
	}
	r.dirActual[p] = actual
	r.dirs[actual] = struct{}{}
	return actual
}

// taken reports whether p has been handed out as a file or a directory.
func (r *Resolver) taken(p string) bool {
	if _, ok := r.files[p]; ok {
		return true
	}
	_, ok := r.dirs[p]
	return ok
}

// numbered inserts a counter before the extension: "a_b.txt" -> "a_b (1).txt".
// A dotfile's leading dot is not an extension: ".env" -> ".env (1)".
func numbered(base string, n int) string {
	ext := path.Ext(base)
	if ext == base {
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s (%d)%s", stem, n, ext)
}
