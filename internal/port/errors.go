package port

import "errors"

// ErrNotFound is wrapped by a StoreError when an update or delete matched no record.
var ErrNotFound = errors.New("record not found")

// StoreError means the store received the call and reported a failure.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

func (e *StoreError) Unwrap() error { return e.Err }

// TransportError means the call did not complete, e.g. the network failed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFound builds the StoreError returned for a missing record.
func NotFound(op string) error {
	return &StoreError{Op: op, Message: ErrNotFound.Error(), Err: ErrNotFound}
}
