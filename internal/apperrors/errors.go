package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicateCode indicates that an account with the same code already exists.
var ErrDuplicateCode = errors.New("account code already exists")

// ErrHasChildren indicates that an account still has sub-accounts.
var ErrHasChildren = errors.New("account has sub-accounts")

// ErrHasTransactions indicates that an account is referenced by journal entries.
var ErrHasTransactions = errors.New("account is referenced by transactions")

// ErrEmptyEntries indicates that a transaction was submitted without entries.
var ErrEmptyEntries = errors.New("transaction must have at least one entry")

// ErrUnbalanced indicates that total debits and credits of a transaction differ.
var ErrUnbalanced = errors.New("transaction debits and credits do not balance")

// ErrStorage wraps any failure of the underlying persistence layer.
var ErrStorage = errors.New("storage error")

// StorageError carries the failed storage operation and its cause.
// errors.Is matches both ErrStorage and the cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrStorage, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Err}
}

// NewStorageError wraps err as a StorageError for the given operation.
// Errors that already carry a ledger sentinel are returned unchanged.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsDomainError reports whether err already carries one of the ledger sentinels.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrValidation, ErrDuplicateCode, ErrHasChildren,
		ErrHasTransactions, ErrEmptyEntries, ErrUnbalanced, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
