package hostsfile

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"focus/internal/backup"
)

const (
	// DefaultPath is the system host-resolution file.
	DefaultPath = "/etc/hosts"

	// BeginMarker and EndMarker delimit the managed section. Everything
	// between them, inclusive, belongs to this tool.
	BeginMarker = "# Added by Focus"
	EndMarker   = "# End of Focus section"

	// BlockAddress is the loopback address every blocked domain maps to.
	BlockAddress = "127.0.0.1"
)

// Editor edits a single hosts file and snapshots its prior state into a
// backup store. The target path is explicit so tests can point it at a
// scratch file. Concurrent editors on the same file race; don't.
type Editor struct {
	path  string
	store *backup.Store

	lines      []string
	backupHash string
	backupPath string
}

func New(path string, store *backup.Store) *Editor {
	return &Editor{path: path, store: store}
}

func (e *Editor) Path() string {
	return e.path
}

// BackupHash returns the hash recorded by the last Snapshot.
func (e *Editor) BackupHash() string {
	return e.backupHash
}

// BackupPath returns the snapshot file recorded by the last Snapshot.
func (e *Editor) BackupPath() string {
	return e.backupPath
}

// Load reads the target file into an ordered, whitespace-stripped line
// list. A missing file fails with ErrNotFound.
func (e *Editor) Load() error {
	f, err := os.Open(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, e.path)
		}
		return fmt.Errorf("failed to open %s: %w", e.path, err)
	}
	defer f.Close()

	e.lines = nil
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		e.lines = append(e.lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", e.path, err)
	}
	return nil
}

// Lines returns the currently loaded contents.
func (e *Editor) Lines() []string {
	return e.lines
}

// Snapshot stores the loaded contents in the backup store and records
// the resulting hash and path. Identical content snapshots to the same
// file, which is never rewritten.
func (e *Editor) Snapshot() error {
	hash, path, err := e.store.Save(e.lines)
	if err != nil {
		return err
	}
	e.backupHash = hash
	e.backupPath = path
	slog.Info("backup completed", "path", path)
	return nil
}

// ApplyBlock removes any existing managed section from the loaded
// contents, appends a fresh one mapping every domain to the loopback
// address, and overwrites the target file with the result.
func (e *Editor) ApplyBlock(domains []string) error {
	if len(e.lines) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyContents, e.path)
	}

	updated := stripManagedSection(e.lines)
	updated = append(updated, BeginMarker)
	for _, d := range domains {
		updated = append(updated, fmt.Sprintf("%s %s", BlockAddress, d))
	}
	updated = append(updated, EndMarker)

	if err := e.write(updated); err != nil {
		return err
	}
	e.lines = updated
	slog.Info("target domains are forbidden", "domains", domains)
	return nil
}

// HasBlock reports whether the file on disk still carries a managed
// section. It re-reads the target so external edits are visible.
func (e *Editor) HasBlock() (bool, error) {
	probe := New(e.path, e.store)
	if err := probe.Load(); err != nil {
		return false, err
	}
	for _, line := range probe.lines {
		if strings.HasPrefix(line, BeginMarker) {
			return true, nil
		}
	}
	return false, nil
}

// Restore overwrites the target file with the single backup whose name
// starts with hash. An empty hash restores the editor's own last
// snapshot.
func (e *Editor) Restore(hash string) error {
	if hash == "" {
		hash = e.backupHash
	}

	name, err := e.store.Find(hash)
	if err != nil {
		return err
	}
	lines, err := e.store.Read(name)
	if err != nil {
		return err
	}
	if err := e.write(lines); err != nil {
		return err
	}
	e.lines = lines
	slog.Info("hosts file restored", "path", e.path, "backup", name)
	return nil
}

func (e *Editor) write(lines []string) error {
	if err := os.WriteFile(e.path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", e.path, err)
	}
	return nil
}

// stripManagedSection drops the marker-delimited section, inclusive. A
// begin marker without a matching end drops the remainder of the file;
// a stray end marker outside a section is kept as-is.
func stripManagedSection(lines []string) []string {
	var kept []string
	inSection := false
	for _, line := range lines {
		if strings.HasPrefix(line, BeginMarker) {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(line, EndMarker) {
			inSection = false
			continue
		}
		if !inSection {
			kept = append(kept, line)
		}
	}
	return kept
}
