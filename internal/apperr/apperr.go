// Package apperr defines the error taxonomy shared by the workers and
// controllers. Every error is tagged with a Kind; the Kind decides whether
// the delivery layer retries the record or drops it.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// KindUnknown marks errors that were never classified.
	KindUnknown Kind = iota
	// KindInvalidInput marks malformed or missing fields on an incoming fact.
	KindInvalidInput
	// KindInfrastructure marks unclassified store or network failures.
	KindInfrastructure
	// KindDuplicateAllocation means the order was already allocated by a
	// previous, possibly retried, invocation.
	KindDuplicateAllocation
	// KindDepletedStock means the SKU counter had fewer units than
	// requested, or the SKU is unknown.
	KindDepletedStock
	// KindDuplicateEvent means the domain event was already raised for the
	// same subject.
	KindDuplicateEvent
	// KindInvalidDeallocation means the allocation snapshot no longer
	// matches store state.
	KindInvalidDeallocation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInfrastructure:
		return "infrastructure"
	case KindDuplicateAllocation:
		return "duplicate_allocation"
	case KindDepletedStock:
		return "depleted_stock"
	case KindDuplicateEvent:
		return "duplicate_event"
	case KindInvalidDeallocation:
		return "invalid_deallocation"
	default:
		return "unknown"
	}
}

// Transient reports whether an error of this kind may succeed if retried.
func (k Kind) Transient() bool {
	switch k {
	case KindInfrastructure, KindUnknown:
		return true
	default:
		return false
	}
}

// Error is a classified error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error wrapping cause. Cause may be nil.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Newf creates a classified error with a formatted cause message.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or KindUnknown when err was never
// classified. KindOf(nil) returns KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsTransient reports whether err may succeed on redelivery. Errors that
// were never classified count as transient: an unrecognized failure is
// assumed to be infrastructure trouble, not a permanent condition.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err).Transient()
}
