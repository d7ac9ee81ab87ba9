package repository

import "errors"

// Storage-level outcomes every adapter maps its driver errors onto.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
