package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive amount or quantity was supplied.
// This is a caller bug, never retried.
var ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrValidation)

// ErrInsufficientBalance indicates a debit larger than the current point balance.
// Expected business outcome, surfaced to the user, not retried.
var ErrInsufficientBalance = errors.New("insufficient point balance")

// ErrInsufficientStock indicates a stock decrease larger than the current stock.
// Expected business outcome, surfaced to the user, not retried.
var ErrInsufficientStock = errors.New("insufficient item stock")

// ErrLockTimeout indicates a row lock could not be acquired before the caller's
// deadline. Transient and safe to retry with backoff: no partial state is ever
// committed when lock acquisition aborts.
var ErrLockTimeout = errors.New("timed out waiting for row lock")

// ErrStorageUnavailable indicates the underlying database could not be reached.
var ErrStorageUnavailable = errors.New("storage unavailable")
