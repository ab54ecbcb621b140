package backup

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoUniqueBackup is returned when a hash prefix matches zero or
// more than one snapshot file.
var ErrNoUniqueBackup = errors.New("backup hash matches zero or multiple snapshots")

// Store keeps content-addressed snapshots as flat files in a single
// directory, one file per snapshot, named by the sha256 hex of the
// snapshot's concatenated lines. Snapshots are never mutated or deleted.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Hash returns the lowercase hex sha256 of the lines joined with no
// separator. The same line list always maps to the same snapshot name.
func Hash(lines []string) string {
	sum := sha256.Sum256([]byte(strings.Join(lines, "")))
	return hex.EncodeToString(sum[:])
}

// Save writes a snapshot of lines, creating the store directory if
// needed. An existing file for the same hash short-circuits the write,
// so a snapshot is written at most once.
func (s *Store) Save(lines []string) (hash, path string, err error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	hash = Hash(lines)
	path = filepath.Join(s.dir, hash)

	if _, err := os.Stat(path); err == nil {
		return hash, path, nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write backup: %w", err)
	}
	return hash, path, nil
}

// Find resolves a hash prefix to the single snapshot name starting with
// it. Zero or multiple matches fail with ErrNoUniqueBackup.
func (s *Store) Find(prefix string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to read backup dir: %w", err)
	}

	var matches []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			matches = append(matches, e.Name())
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("%w: %q has %d matches", ErrNoUniqueBackup, prefix, len(matches))
	}
	return matches[0], nil
}

// Read returns the stripped lines of a snapshot by its full name.
func (s *Store) Read(name string) ([]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return lines, nil
}
