package secondary

import "errors"

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write hits a uniqueness constraint.
var ErrConflict = errors.New("conflict")
