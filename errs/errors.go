// Package errs provides the error taxonomy shared by the record store,
// the aggregation engine and the metrics calculator.
package errs

import (
	"errors"
	"fmt"
)

// ============================================================================
// ERROR CODES
// ============================================================================

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// CodeDataSource: a source is missing, unreadable or malformed. Fatal for the run.
	CodeDataSource ErrorCode = "DATA_SOURCE_ERROR"
	// CodeSchemaMismatch: an expected column is absent. Fails any metric
	// touching that column; other metrics still run.
	CodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
	// CodeEmptyGroup: a ratio was requested over zero rows.
	CodeEmptyGroup ErrorCode = "EMPTY_GROUP"
	// CodeInsufficientData: a reduction had too few usable values.
	CodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrDataSource       = &Error{Code: CodeDataSource, Fatal: true}
	ErrSchemaMismatch   = &Error{Code: CodeSchemaMismatch}
	ErrEmptyGroup       = &Error{Code: CodeEmptyGroup}
	ErrInsufficientData = &Error{Code: CodeInsufficientData}
)

// ============================================================================
// ERROR TYPE
// ============================================================================

// Error is a structured failure with a code.
type Error struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Fatal    bool                   `json:"fatal"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Details != "" {
		msg = msg + ": " + e.Details
	}
	if e.cause != nil {
		msg = msg + ": " + e.cause.Error()
	}
	return fmt.Sprintf("%s[%s]", msg, e.Code)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy of e carrying an extra metadata entry.
func (e *Error) With(key string, value interface{}) *Error {
	cp := *e
	cp.Metadata = make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		cp.Metadata[k] = v
	}
	cp.Metadata[key] = value
	return &cp
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NewDataSourceError reports a missing or malformed source.
func NewDataSourceError(details string, cause error) *Error {
	return &Error{
		Code:    CodeDataSource,
		Message: "data source error",
		Details: details,
		Fatal:   true,
		cause:   cause,
	}
}

// NewSchemaMismatchError reports an absent column in a table.
func NewSchemaMismatchError(table, column string) *Error {
	return &Error{
		Code:     CodeSchemaMismatch,
		Message:  "schema mismatch",
		Details:  fmt.Sprintf("table %q has no column %q", table, column),
		Metadata: map[string]interface{}{"table": table, "column": column},
	}
}

// NewEmptyGroupError reports a ratio over an empty set.
func NewEmptyGroupError(details string) *Error {
	return &Error{
		Code:    CodeEmptyGroup,
		Message: "empty group",
		Details: details,
	}
}

// NewInsufficientDataError reports a reduction with too few usable values.
func NewInsufficientDataError(details string) *Error {
	return &Error{
		Code:    CodeInsufficientData,
		Message: "insufficient data",
		Details: details,
	}
}

// ============================================================================
// CLASSIFICATION
// ============================================================================

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsFatal reports whether err should abort the whole run.
// Unclassified errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Fatal
	}
	return true
}

// IsNoData reports whether err means a metric had nothing to compute on.
func IsNoData(err error) bool {
	return errors.Is(err, ErrEmptyGroup) || errors.Is(err, ErrInsufficientData)
}
