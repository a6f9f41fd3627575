// Package errors provides structured error types for the campuschat client.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindAuth
	KindNetwork
	KindSocket
	KindConfig
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindAuth:
		return "authentication error"
	case KindNetwork:
		return "network error"
	case KindSocket:
		return "socket error"
	case KindConfig:
		return "configuration error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for campuschat.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Auth errors

func SessionInvalid() error {
	return E(Op("api.Authorize"), KindAuth, "session is no longer valid")
}

func WrongCredentials() error {
	return E(Op("api.Login"), KindAuth, "wrong credentials")
}

// API errors

func RequestFailed(op Op, status int, body string) error {
	kind := KindNetwork
	if status == 401 || status == 403 {
		kind = KindAuth
	}
	return E(op, kind, fmt.Sprintf("server returned %d: %s", status, body))
}

// Validation errors

func EmptyMessage() error {
	return E(Op("chat.SendText"), KindValidation, "message is empty")
}

func FileTooLarge(name string, size, limit int64) error {
	return E(Op("chat.SendFile"), KindValidation,
		fmt.Sprintf("file %s is %d bytes, limit is %d", name, size, limit))
}

// Config errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

// Socket errors

func SocketClosed(err error) error {
	return E(Op("realtime.ReadPump"), KindSocket, "connection closed", err)
}

func NotConnected() error {
	return E(Op("realtime.Emit"), KindSocket, "no active connection")
}
