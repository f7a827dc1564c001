package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the backend client
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrUnauthenticated: the backend confirmed there is no session (401/403)
// - ErrExpired: cached snapshot or token past its staleness window
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backend or store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrExpired         = errors.New("expired")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnavailable     = errors.New("unavailable")
)
