package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDir_UsesEnv(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, filepath.Join("/tmp/state", "ballot"), StateDir())
	assert.Equal(t, filepath.Join("/tmp/state", "ballot", "credential.json"), CredentialFile())
}

func TestConfigDir_FallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/alice")
	assert.Equal(t, filepath.Join("/home/alice", ".config", "ballot"), ConfigDir())
	assert.Equal(t, filepath.Join("/home/alice", ".config", "ballot", "config.yaml"), ConfigFile())
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
