package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a uniqueness violation, e.g. a workId already
	// present in the owner's collection.
	ErrConflict = errors.New("conflict")
)
