package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed a business-rule check.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates the source account cannot cover amount plus fee.
// Kept distinct from ErrValidation because callers branch on it specifically.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrFraudBlocked indicates the transfer was blocked by the risk scorer.
var ErrFraudBlocked = errors.New("transfer blocked by fraud check")

// ErrVersionConflict indicates an optimistic-concurrency check failed at write
// time. The attempt is safe to retry after a fresh read.
var ErrVersionConflict = errors.New("version conflict")

// ErrConflict indicates the request conflicts with the current resource state.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
