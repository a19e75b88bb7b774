package storage

import "errors"

// ErrNotFound is returned when a requested cycle does not exist.
var ErrNotFound = errors.New("not found")
