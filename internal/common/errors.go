// Package common defines sentinel errors and small helpers shared by the
// storage, service and CLI layers of gophvault. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Storage errors.
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrUnknownBackend = errors.New("unknown storage backend")

	// Service lifecycle errors.
	ErrStoreDisposed = errors.New("store disposed")
)
