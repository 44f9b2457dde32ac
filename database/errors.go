package db

import (
	"errors"
	"strings"
)

// ErrorKind classifies failures of the import/export layer.
type ErrorKind string

const (
	KindUnsupportedFormat  ErrorKind = "unsupported_format"
	KindInvalidInputShape  ErrorKind = "invalid_input_shape"
	KindDecode             ErrorKind = "decode_error"
	KindTableNotFound      ErrorKind = "table_not_found"
	KindStorage            ErrorKind = "storage_error"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
	KindWrite              ErrorKind = "write_error"
	KindSerialization      ErrorKind = "serialization_error"
)

// Sentinels for errors.Is checks. An *Error matches the sentinel of its kind.
var (
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrInvalidInputShape  = errors.New("invalid input shape")
	ErrDecode             = errors.New("decode error")
	ErrTableNotFound      = errors.New("table not found")
	ErrStorage            = errors.New("storage error")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWrite              = errors.New("write error")
	ErrSerialization      = errors.New("serialization error")
)

var sentinels = map[ErrorKind]error{
	KindUnsupportedFormat:  ErrUnsupportedFormat,
	KindInvalidInputShape:  ErrInvalidInputShape,
	KindDecode:             ErrDecode,
	KindTableNotFound:      ErrTableNotFound,
	KindStorage:            ErrStorage,
	KindStorageUnavailable: ErrStorageUnavailable,
	KindWrite:              ErrWrite,
	KindSerialization:      ErrSerialization,
}

// Error carries the kind of failure plus enough context to render a message.
type Error struct {
	Kind  ErrorKind
	Op    string // "import", "export", "open", ...
	Table string
	Path  string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var parts []string
	head := e.Op
	if head == "" {
		head = string(e.Kind)
	}
	parts = append(parts, head)
	if e.Table != "" {
		parts = append(parts, "table "+e.Table)
	}
	if e.Path != "" {
		parts = append(parts, "path "+e.Path)
	}
	msg := strings.Join(parts, ", ")
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newError(kind ErrorKind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func (e *Error) withTable(table string) *Error {
	e.Table = table
	return e
}

func (e *Error) withPath(path string) *Error {
	e.Path = path
	return e
}

// KindOf returns the kind of err, or "" when err did not originate here.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
