package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "instance", "landchain.db")

	got, err := EnsureParentDir(dbPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "instance"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	_, err = EnsureParentDir(dbPath)
	require.NoError(t, err, "existing directory is fine")
}

func TestEnsureParentDir_BareFileName(t *testing.T) {
	got, err := EnsureParentDir("landchain.db")
	require.NoError(t, err)
	require.Equal(t, ".", got)
}
