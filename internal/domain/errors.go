package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound         = errors.New("resource not found")
	ErrDuplicate        = errors.New("duplicate resource")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("conflict with current state")
	ErrIdentityNotFound = errors.New("no product found for identity")
	ErrQuotaExceeded    = errors.New("free plan snapshot limit reached")
	ErrNoReportContext  = errors.New("no report context")
)
