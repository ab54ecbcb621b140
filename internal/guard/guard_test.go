package guard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"focus/internal/backup"
	"focus/internal/hostsfile"
)

func TestGuardReappliesBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	editor := hostsfile.New(path, backup.NewStore(filepath.Join(dir, "backups")))
	require.NoError(t, editor.Load())
	require.NoError(t, editor.ApplyBlock([]string{"x.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := New(editor, []string{"x.com"})
	g.settle = 20 * time.Millisecond
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	// Something else wipes the managed section.
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	require.Eventually(t, func() bool {
		ok, err := editor.HasBlock()
		return err == nil && ok
	}, 3*time.Second, 50*time.Millisecond, "managed section was not re-applied")

	cancel()
	require.NoError(t, <-done)
}

func TestGuardIgnoresIntactFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	editor := hostsfile.New(path, backup.NewStore(filepath.Join(dir, "backups")))
	require.NoError(t, editor.Load())
	require.NoError(t, editor.ApplyBlock([]string{"x.com"}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := New(editor, []string{"x.com"})
	g.settle = 20 * time.Millisecond
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	// An unrelated file in the watched directory changes.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))

	cancel()
	require.NoError(t, <-done)
}
