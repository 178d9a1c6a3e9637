package plan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_Totals(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub1", "sub2"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "root.txt"), []byte("root"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub1", "s1.txt"), []byte("s1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub1", "sub2", "s2.bin"), make([]byte, 100), 0644))

	p, err := Scan(src, Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), p.TotalFiles)
	assert.Equal(t, int64(len(p.Entries)), p.TotalFiles)

	var sum int64
	for _, e := range p.Entries {
		sum += e.Size
	}
	assert.Equal(t, sum, p.TotalBytes)
	assert.Equal(t, int64(4+2+100), p.TotalBytes)
}

func TestScan_RelPaths(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("x"), 0644))

	p, err := Scan(src, Options{})
	require.NoError(t, err)
	require.Len(t, p.Entries, 1)

	assert.Equal(t, filepath.Join("a", "b", "deep.txt"), p.Entries[0].RelPath)
	assert.Equal(t, filepath.Join(src, "a", "b", "deep.txt"), p.Entries[0].SrcPath)
}

func TestScan_LexicalOrder(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte("x"), 0644))
	}

	p, err := Scan(src, Options{})
	require.NoError(t, err)
	require.Len(t, p.Entries, 3)

	assert.Equal(t, "a.txt", p.Entries[0].RelPath)
	assert.Equal(t, "b.txt", p.Entries[1].RelPath)
	assert.Equal(t, "c.txt", p.Entries[2].RelPath)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)

	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Contains(t, nfe.Path, "nope")
}

func TestScan_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Scan(file, Options{})
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestScan_EmptyTree(t *testing.T) {
	p, err := Scan(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Entries)
	assert.Zero(t, p.TotalFiles)
	assert.Zero(t, p.TotalBytes)
}

func TestScan_SkipsSymlinks(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "target.txt"), []byte("target"), 0644))
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))

	p, err := Scan(src, Options{})
	require.NoError(t, err)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, "target.txt", p.Entries[0].RelPath)
}

func TestScan_ExcludeFile(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep.txt"), []byte("keep"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "skip.log"), []byte("skip"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "also.log"), []byte("skip"), 0644))

	p, err := Scan(src, Options{Exclude: []string{"*.log"}})
	require.NoError(t, err)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, "keep.txt", p.Entries[0].RelPath)
}

func TestScan_ExcludeDirSkipsSubtree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "build", "out"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "root.txt"), []byte("root"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "build", "artifact.bin"), []byte("bin"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "build", "out", "deep.txt"), []byte("deep"), 0644))

	p, err := Scan(src, Options{Exclude: []string{"build"}})
	require.NoError(t, err)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, "root.txt", p.Entries[0].RelPath)
}

func TestScan_RootStatPermissionError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, cannot test permission denied")
	}

	parent := t.TempDir()
	root := filepath.Join(parent, "src")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.Chmod(parent, 0000))
	defer func() { _ = os.Chmod(parent, 0755) }()

	_, err := Scan(root, Options{})
	require.Error(t, err)

	// An unreadable root is a permission failure, not a missing one.
	var nfe *NotFoundError
	assert.False(t, errors.As(err, &nfe))
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestScan_PermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, cannot test permission denied")
	}

	src := t.TempDir()
	subdir := filepath.Join(src, "forbidden")
	require.NoError(t, os.Mkdir(subdir, 0000))
	defer func() { _ = os.Chmod(subdir, 0755) }()

	_, err := Scan(src, Options{})
	assert.Error(t, err)
}
