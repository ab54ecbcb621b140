package hostsfile

import "errors"

var (
	// ErrNotFound is returned when the target file does not exist.
	ErrNotFound = errors.New("hosts file not found")

	// ErrEmptyContents is returned when a block is applied before any
	// content has been loaded.
	ErrEmptyContents = errors.New("hosts file has no loaded contents")
)
