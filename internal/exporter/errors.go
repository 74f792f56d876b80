package exporter

import (
	"context"
	"errors"

	"github.com/orsinium-labs/enum"
)

// Kind classifies why an export failed.
type Kind enum.Member[string]

var (
	KindInvalidConfig    = Kind{Value: "invalid_config"}
	KindDatabaseNotFound = Kind{Value: "database_not_found"}
	KindInvalidDatabase  = Kind{Value: "invalid_database"}
	KindTableNotFound    = Kind{Value: "table_not_found"}
	KindSchemaMismatch   = Kind{Value: "schema_mismatch"}
	KindQueryFailed      = Kind{Value: "query_failed"}
	KindWriteFailed      = Kind{Value: "write_failed"}
	KindCanceled         = Kind{Value: "canceled"}

	Kinds = enum.New(
		KindInvalidConfig,
		KindDatabaseNotFound,
		KindInvalidDatabase,
		KindTableNotFound,
		KindSchemaMismatch,
		KindQueryFailed,
		KindWriteFailed,
		KindCanceled,
	)
)

// Error wraps an export failure with its kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Value + ": " + e.Msg
	}
	return e.Kind.Value + ": " + e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind Kind, msg string, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCanceled
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindFromError returns the kind carried by err, or KindQueryFailed
// for errors that were never classified.
func KindFromError(err error) Kind {
	if err == nil {
		return Kind{}
	}

	var exportErr *Error
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}

	return KindQueryFailed
}
