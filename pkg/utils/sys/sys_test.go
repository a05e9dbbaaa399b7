package sys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteMemoryProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.prof")
	require.NoError(t, WriteMemoryProfile(path))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, fi.Size())

	require.Error(t, WriteMemoryProfile(filepath.Join(t.TempDir(), "missing", "mem.prof")))
}

func TestStartTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.out")
	stop, err := StartTrace(path)
	require.NoError(t, err)
	LogMemoryUsage()
	require.NoError(t, stop())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, fi.Size())
}
