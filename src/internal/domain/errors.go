package domain

import "errors"

var ErrAccountNotFound = errors.New("Account not found")
var ErrAccountAlreadyExists = errors.New("Account already exists")
var ErrInvalidAmount = errors.New("Amount must be greater than zero")
var ErrInsufficientFunds = errors.New("Insufficient funds")

// StorageError wraps a persistence-layer failure so callers can tell a broken
// backend apart from a rejected request. Adapters must not surface the wrapped
// driver text to end users.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
