package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestReadFiles(t *testing.T) {
	srcDir := t.TempDir()
	writeFiles(t, srcDir, map[string]string{
		"b.txt":    "second",
		"a.txt":    "first",
		"c.md":     "skipped",
		"10_3.txt": "third",
	})
	require.NoError(t, os.Mkdir(filepath.Join(srcDir, "sub.txt"), 0755))

	files, err := ReadFiles(srcDir, ".txt")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(srcDir, "10_3.txt"),
		filepath.Join(srcDir, "a.txt"),
		filepath.Join(srcDir, "b.txt"),
	}, files)

	_, err = ReadFiles(filepath.Join(srcDir, "missing"), ".txt")
	require.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	srcDir := t.TempDir()
	writeFiles(t, srcDir, map[string]string{
		"a.txt": "cat sat",
		"b.txt": "cat ran",
	})

	docs, err := LoadDir(srcDir, ".txt")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "a.txt", docs[0].ID())
	require.Equal(t, "b.txt", docs[1].ID())

	text, err := docs[1].Text()
	require.NoError(t, err)
	require.Equal(t, "cat ran", text)

	require.NoError(t, os.Remove(docs[0].Path()))
	_, err = docs[0].Text()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDirEmpty(t *testing.T) {
	docs, err := LoadDir(t.TempDir(), ".txt")
	require.NoError(t, err)
	require.Empty(t, docs)
}
