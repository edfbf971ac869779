package app

import (
	"errors"
	"fmt"

	"github.com/rook-computer/titlecard/internal/state"
)

// Kind classifies why a run was aborted.
type Kind int

const (
	UsageError Kind = iota + 1
	ResourceMissing
	WriteError
)

var (
	ErrUsage           = errors.New("usage error")
	ErrResourceMissing = errors.New("resource missing")
	ErrWrite           = errors.New("write error")
)

func (k Kind) sentinel() error {
	switch k {
	case UsageError:
		return ErrUsage
	case ResourceMissing:
		return ErrResourceMissing
	case WriteError:
		return ErrWrite
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

// Error is a failed run: the phase it stopped in and the underlying cause.
type Error struct {
	Kind  Kind
	Phase state.Phase
	Err   error
}

func NewError(kind Kind, phase state.Phase, err error) *Error {
	return &Error{Kind: kind, Phase: phase, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Phase, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind, so errors.Is(err, ErrWrite) works.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
