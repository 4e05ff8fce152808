// Package fault classifies the errors the variant engine can raise.
//
// Every error carries a Kind so callers can decide between failing fast
// (configuration, production) and falling back (lookup misses, dangling
// catalog links) with errors.Is.
package fault

import (
	"errors"
	"fmt"
)

// Kind sentinels. Match with errors.Is(err, fault.ErrConfiguration) etc.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDanglingLink  = errors.New("dangling catalog link")
	ErrTypeNotFound  = errors.New("image type not found")
	ErrProduction    = errors.New("variant production failed")
)

// Error is a classified error raised by an operation.
type Error struct {
	Kind error  // one of the Err* sentinels
	Op   string // operation that failed, e.g. "resolve path"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Configuration builds a fatal configuration error.
func Configuration(op string, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Op: op, Err: fmt.Errorf(format, args...)}
}

// Production wraps a codec or storage failure for one variant.
func Production(op string, err error) error {
	return &Error{Kind: ErrProduction, Op: op, Err: err}
}

// TypeNotFound reports a lookup miss for an image type id.
func TypeNotFound(typeID string) error {
	return &Error{Kind: ErrTypeNotFound, Op: "lookup type " + typeID}
}

// DanglingLink reports a catalog link whose type or profile does not exist.
func DanglingLink(typeID, profileID string) error {
	return &Error{Kind: ErrDanglingLink, Op: fmt.Sprintf("link %s -> %s", typeID, profileID)}
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }
