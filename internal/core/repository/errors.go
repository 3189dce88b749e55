package repository

import "errors"

// ErrDuplicate is returned by Create when a unique constraint would be violated.
var ErrDuplicate = errors.New("duplicate record")
