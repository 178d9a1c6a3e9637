package sanitize

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/ferry/internal/fsys"
)

func TestClean_ReplacesForbidden(t *testing.T) {
	tests := []struct {
		name    string
		profile fsys.Profile
		input   string
		want    string
	}{
		{"colon", fsys.NTFS, "a:b.txt", "a_b.txt"},
		{"all special", fsys.FAT32, `<>:"/\|?*`, "_________"},
		{"mixed", fsys.ExFAT, `report|final?.pdf`, "report_final_.pdf"},
		{"clean name untouched", fsys.NTFS, "plain-name.txt", "plain-name.txt"},
		{"ext4 allows windows chars", fsys.Ext4, `a:b*c?.txt`, `a:b*c?.txt`},
		{"ext4 slash", fsys.Ext4, "a/b", "a_b"},
		{"ext4 nul", fsys.Ext4, "a\x00b", "a_b"},
		{"hfs colon only", fsys.HFSPlus, `a:b/c*`, `a_b/c*`},
		{"empty", fsys.NTFS, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input, tt.profile.Forbidden())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClean_PreservesLength(t *testing.T) {
	inputs := []string{"a:b.txt", `<>"|`, "ünïcode:file", "no-op.bin", "::::"}
	for _, p := range fsys.Profiles() {
		for _, in := range inputs {
			out := Clean(in, p.Forbidden())
			assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(out),
				"length of %q under %s", in, p)
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{"a:b.txt", `<>:"/\|?*`, "already_clean.txt", "x?y*z"}
	for _, p := range fsys.Profiles() {
		for _, in := range inputs {
			once := Clean(in, p.Forbidden())
			twice := Clean(once, p.Forbidden())
			assert.Equal(t, once, twice, "%q under %s", in, p)
		}
	}
}

func TestResolver_NoCollision(t *testing.T) {
	r := NewResolver(fsys.NTFS)
	assert.Equal(t, "a.txt", r.Resolve("a.txt"))
	assert.Equal(t, "b.txt", r.Resolve("b.txt"))
}

func TestResolver_Collision(t *testing.T) {
	r := NewResolver(fsys.NTFS)
	first := r.Resolve("a_b.txt")
	second := r.Resolve("a:b.txt")
	assert.Equal(t, "a_b.txt", first)
	assert.Equal(t, "a_b (1).txt", second)
}

func TestResolver_ManyCollisions(t *testing.T) {
	r := NewResolver(fsys.NTFS)
	seen := make(map[string]bool)
	variants := []string{"a_b.txt", "a:b.txt", "a?b.txt", "a*b.txt", "a|b.txt"}
	for _, v := range variants {
		got := r.Resolve(v)
		require.False(t, seen[got], "duplicate output %q for input %q", got, v)
		seen[got] = true
	}
	assert.Len(t, seen, len(variants))
}

func TestResolver_CollisionWithoutExtension(t *testing.T) {
	r := NewResolver(fsys.NTFS)
	assert.Equal(t, "a_b", r.Resolve("a_b"))
	assert.Equal(t, "a_b (1)", r.Resolve("a:b"))
	assert.Equal(t, "a_b (2)", r.Resolve("a?b"))
}

func TestResolver_SanitizesDirectoryComponents(t *testing.T) {
	r := NewResolver(fsys.NTFS)
	got := r.Resolve(filepath.Join("da:ta", "file?.txt"))
	assert.Equal(t, filepath.Join("da_ta", "file_.txt"), got)
}

func TestResolver_MergedDirsStillDistinctFiles(t *testing.T) {
	// Two source dirs that clean to the same name merge at the destination;
	// files with the same cleaned name inside them must not overwrite.
	r := NewResolver(fsys.NTFS)
	first := r.Resolve("a:b/x.txt")
	second := r.Resolve("a_b/x.txt")
	assert.Equal(t, "a_b/x.txt", first)
	assert.Equal(t, "a_b/x (1).txt", second)
}

func TestResolver_FileCollidesWithDirectory(t *testing.T) {
	// A directory claimed earlier in the run takes the name; a file that
	// cleans to the same path gets the numeric suffix.
	r := NewResolver(fsys.NTFS)
	assert.Equal(t, "a_b/x.txt", r.Resolve("a:b/x.txt"))
	assert.Equal(t, "a_b (1)", r.Resolve("a_b"))
}

func TestResolver_DirectoryCollidesWithFile(t *testing.T) {
	// Reverse order: the file holds the name, so the directory is diverted,
	// and every entry under the same source directory follows the diversion.
	r := NewResolver(fsys.NTFS)
	assert.Equal(t, "a_b", r.Resolve("a_b"))
	assert.Equal(t, "a_b (1)/x.txt", r.Resolve("a:b/x.txt"))
	assert.Equal(t, "a_b (1)/y.txt", r.Resolve("a:b/y.txt"))
}

func TestResolver_DotfileCollision(t *testing.T) {
	// A dotfile's leading dot is not an extension; the counter goes after it.
	r := NewResolver(fsys.NTFS)
	assert.Equal(t, ".env_", r.Resolve(".env?"))
	assert.Equal(t, ".env_ (1)", r.Resolve(".env*"))
}

func TestResolver_ScopedPerDirectory(t *testing.T) {
	// The same base name in different directories is not a collision.
	r := NewResolver(fsys.NTFS)
	assert.Equal(t, "one/x.txt", r.Resolve("one/x.txt"))
	assert.Equal(t, "two/x.txt", r.Resolve("two/x.txt"))
}

func TestResolver_AllForbiddenName(t *testing.T) {
	r := NewResolver(fsys.FAT32)
	got := r.Resolve(`<>"|`)
	assert.Equal(t, "____", got)
}
