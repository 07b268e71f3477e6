package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrorKind enumerates every failure class a request can produce.
// Representing outcomes as a closed set keeps the dispatcher's
// error-to-envelope mapping exhaustive.
type ErrorKind string

const (
	// KindMissingCredential signals the required platform token is absent
	// from process configuration.
	KindMissingCredential ErrorKind = "MissingCredential"

	// KindProviderError signals the downstream platform rejected or failed
	// the call; the message carries the platform's own error text when
	// available.
	KindProviderError ErrorKind = "ProviderError"

	// KindNotFound signals a name-to-identifier resolution found no match.
	KindNotFound ErrorKind = "NotFound"

	// KindValidationError signals a required tool argument is missing or
	// malformed.
	KindValidationError ErrorKind = "ValidationError"

	// KindUnknownTool signals tools/call named an unregistered tool.
	KindUnknownTool ErrorKind = "UnknownTool"

	// KindUnknownMethod signals an unrecognized JSON-RPC method.
	KindUnknownMethod ErrorKind = "UnknownMethod"

	// KindMalformedRequest signals the request body was not parsable as
	// JSON-RPC.
	KindMalformedRequest ErrorKind = "MalformedRequest"
)

// Error is a tagged failure. Every error surfaced to a caller is one of
// these; untyped errors are wrapped as ProviderError at the boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds a tagged error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a tagged error. Untagged errors report
// KindProviderError, the catch-all for unexpected I/O failures.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindProviderError
}

// MessageOf returns the human-readable message of a tagged error, or the
// plain error text for untagged ones.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// IsToolFailure reports whether the kind describes a failure inside a tool
// invocation (as opposed to a protocol-level failure). Tool failures are
// rendered with a failure glyph in user-visible text.
func (k ErrorKind) IsToolFailure() bool {
	switch k {
	case KindMissingCredential, KindProviderError, KindNotFound, KindValidationError:
		return true
	}
	return false
}
