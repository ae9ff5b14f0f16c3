package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrServerOffline indicates the school register is unreachable
	ErrServerOffline = errors.New("register is unreachable")

	// ErrAuthFailed indicates the stored session was rejected
	ErrAuthFailed = errors.New("session is invalid")

	// ErrInjected is returned by the fixture client for endpoints configured to fail
	ErrInjected = errors.New("injected failure")

	// ErrUnknownSource indicates a data source has no provider bound to it
	ErrUnknownSource = errors.New("no provider for data source")
)
