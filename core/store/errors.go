package store

import "errors"

// ErrNotFound is used when a required value is missing from a store.
var ErrNotFound = errors.New("store: value not found")
