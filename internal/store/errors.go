package store

import "errors"

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrReferentialConflict is returned when a category delete is blocked by
// products still referencing it.
var ErrReferentialConflict = errors.New("store: referenced by existing products")

// ErrStaleQuantity is returned by CompareAndSetQuantity when the stored
// quantity no longer matches the expected value.
var ErrStaleQuantity = errors.New("store: quantity changed concurrently")

// ErrUnavailable wraps transport-level failures talking to the backend.
// No call is ever retried; the failure is surfaced to the caller as is.
var ErrUnavailable = errors.New("store: unavailable")
