// Package diag is the shared error vocabulary for the inferencer: one
// CLIError type with a fixed set of codes, used by every package from
// internal/schema down to internal/cliapp so a caller can dispatch on
// Code without string-matching a message.
package diag

import "encoding/json"

// Error codes, one per failure mode the pipeline can report.
const (
	ErrParseError             = "ERR_PARSE_ERROR"
	ErrSchemaConflict         = "ERR_SCHEMA_CONFLICT"
	ErrUnknownFieldTarget     = "ERR_UNKNOWN_FIELD_TARGET"
	ErrFieldOnView            = "ERR_FIELD_ON_VIEW"
	ErrShapeConflict          = "ERR_SHAPE_CONFLICT"
	ErrUnsupportedValueClause = "ERR_UNSUPPORTED_VALUE_CLAUSE"
	ErrLetRequiresAnnotation  = "ERR_LET_REQUIRES_ANNOTATION"
	ErrUnknownParameter       = "ERR_UNKNOWN_PARAMETER"
	ErrUnknownTable           = "ERR_UNKNOWN_TABLE"
	ErrUnknownField           = "ERR_UNKNOWN_FIELD"
	ErrUnknownFunction        = "ERR_UNKNOWN_FUNCTION"
	ErrUnsupportedPath        = "ERR_UNSUPPORTED_PATH"
	ErrUnsupportedKindDescent = "ERR_UNSUPPORTED_KIND_DESCENT"
	ErrArithMismatch          = "ERR_ARITH_MISMATCH"
	ErrUnsupportedOperator    = "ERR_UNSUPPORTED_OPERATOR"
	ErrUnsupportedExpression  = "ERR_UNSUPPORTED_EXPRESSION"
	ErrUnsupportedStatement   = "ERR_UNSUPPORTED_STATEMENT"
	ErrViewCycle              = "ERR_VIEW_CYCLE"
	ErrViewMultipleSources    = "ERR_VIEW_MULTIPLE_SOURCES"
	ErrEmitUnsupportedKind    = "ERR_EMIT_UNSUPPORTED_KIND"
)

// CLIError is the uniform error payload surfaced by every stage of the
// pipeline, from parsing through emission. Error (and therefore %s and
// %v) prints Message, followed by ": " and Detail when Detail is set.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e CLIError) String() string {
	return e.Error()
}

// JSON renders the error as a JSON object, which the CLI prints to
// stderr when a command fails.
func (e CLIError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New builds a bare CLIError with no wrapped detail.
func New(code, message string) error {
	return CLIError{Code: code, Message: message}
}

// Wrap attaches an inner error's text as Detail, the pattern every
// stage uses to identify the offending idiom or statement textually.
func Wrap(code, message string, inner error) error {
	return CLIError{Code: code, Message: message, Detail: inner.Error()}
}

// Wrapf builds a CLIError whose Detail names the offending idiom,
// statement, or identifier. detail is plain text, not a format string
// with inner error chaining — use Wrap for that.
func Wrapf(code, message, detail string) error {
	return CLIError{Code: code, Message: message, Detail: detail}
}
