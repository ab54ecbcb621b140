// Package guard keeps the managed hosts section in place while a timed
// block holds, re-applying it if something else rewrites the file.
package guard

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"focus/internal/hostsfile"
)

// Guard watches the editor's target file and re-applies the block when
// an external write removes the managed section.
type Guard struct {
	editor  *hostsfile.Editor
	domains []string

	// settle delays the integrity check after an event so editors that
	// replace the file in several steps are read only once, settled.
	settle time.Duration
}

func New(editor *hostsfile.Editor, domains []string) *Guard {
	return &Guard{
		editor:  editor,
		domains: domains,
		settle:  200 * time.Millisecond,
	}
}

// Run watches until ctx is done. The parent directory is watched rather
// than the file itself, so rename-replace edits keep being seen.
func (g *Guard) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(g.editor.Path())); err != nil {
		return err
	}

	target := filepath.Clean(g.editor.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(g.settle):
			}
			g.reassert()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("hosts watcher error", "error", err)
		}
	}
}

func (g *Guard) reassert() {
	intact, err := g.editor.HasBlock()
	if err != nil {
		slog.Warn("failed to check hosts file", "error", err)
		return
	}
	if intact {
		return
	}
	slog.Warn("managed section removed externally, re-applying", "path", g.editor.Path())
	if err := g.editor.Load(); err != nil {
		slog.Warn("failed to reload hosts file", "error", err)
		return
	}
	if err := g.editor.ApplyBlock(g.domains); err != nil {
		slog.Warn("failed to re-apply block", "error", err)
	}
}
