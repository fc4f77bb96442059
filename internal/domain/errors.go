package domain

import "errors"

// Failure categories shared by the store, the file manager and the
// workflows. Callers classify with errors.Is; messages carry the detail.
var (
	ErrValidation = errors.New("invalid field value")
	ErrFileIO     = errors.New("file operation failed")
	ErrStoreWrite = errors.New("store write failed")
	ErrStoreRead  = errors.New("store read failed")
	ErrNotFound   = errors.New("entry not found")
)
