package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus/internal/timer"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func writeHosts(t *testing.T) (hostsPath, backupDir string) {
	t.Helper()
	dir := t.TempDir()
	hostsPath = filepath.Join(dir, "hosts")
	backupDir = filepath.Join(dir, "backups")
	require.NoError(t, os.WriteFile(hostsPath, []byte("a\nb\n"), 0644))
	return hostsPath, backupDir
}

func TestNeverEndingThenRestore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	hostsPath, backupDir := writeHosts(t)

	require.NoError(t, execute(t,
		"x.com", "-n", "-q", "-b", backupDir, "--hosts-file", hostsPath))

	blocked, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Contains(t, string(blocked), "127.0.0.1 x.com")

	// The single snapshot in the backup dir names the original state.
	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	hash := entries[0].Name()

	require.NoError(t, execute(t,
		"-r", hash[:10], "-q", "-b", backupDir, "--hosts-file", hostsPath))

	restored, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(restored))
}

func TestTimedBlockRestoresOnExit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	hostsPath, backupDir := writeHosts(t)

	require.NoError(t, execute(t,
		"x.com", "-t", "1s", "-q", "-b", backupDir, "--hosts-file", hostsPath))

	restored, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(restored))
}

func TestInvalidDuration(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	hostsPath, backupDir := writeHosts(t)

	err := execute(t,
		"x.com", "-t", "7.8s", "-q", "-b", backupDir, "--hosts-file", hostsPath)
	assert.ErrorIs(t, err, timer.ErrInvalidDuration)

	// A malformed duration aborts before the hosts file is modified.
	content, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(content))
}

func TestTimedBlockWithGuardRestores(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	hostsPath, backupDir := writeHosts(t)

	require.NoError(t, execute(t,
		"x.com", "--guard", "-t", "1s", "-q", "-b", backupDir, "--hosts-file", hostsPath))

	// The guard is stopped before the final restore, so the restored
	// state is what remains on disk.
	restored, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(restored))
}

func TestTimeAndNeverEndingConflict(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	hostsPath, backupDir := writeHosts(t)

	err := execute(t,
		"x.com", "-t", "5s", "-n", "-q", "-b", backupDir, "--hosts-file", hostsPath)
	assert.Error(t, err)
}

func TestMissingHostsFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	err := execute(t,
		"x.com", "-n", "-q", "-b", filepath.Join(dir, "backups"),
		"--hosts-file", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestNoDurationGiven(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	hostsPath, backupDir := writeHosts(t)

	err := execute(t,
		"x.com", "-q", "-b", backupDir, "--hosts-file", hostsPath)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "duration"))

	content, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(content))
}

func TestPresetExpansion(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgDir)
	path := filepath.Join(cfgDir, "focus", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"presets": {"social": ["y.org"]}}`), 0644))

	hostsPath, backupDir := writeHosts(t)
	require.NoError(t, execute(t,
		"x.com", "--preset", "social", "-n", "-q", "-b", backupDir, "--hosts-file", hostsPath))

	blocked, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Contains(t, string(blocked), "127.0.0.1 x.com")
	assert.Contains(t, string(blocked), "127.0.0.1 y.org")
}
