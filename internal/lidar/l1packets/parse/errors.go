package parse

import (
	"errors"
	"fmt"
)

// Sentinel errors. Concrete errors returned by this package unwrap to one of
// these so callers can test with errors.Is.
var (
	ErrBadMagic      = errors.New("bad magic word")
	ErrShortRead     = errors.New("short read")
	ErrFrameTooLarge = errors.New("frame body exceeds buffer")
	ErrDecode        = errors.New("decode error")
)

// FrameError reports a failure while reading a frame header or body.
type FrameError struct {
	Kind  error  // ErrBadMagic, ErrShortRead or ErrFrameTooLarge
	Stage string // "header" or "body"
	Want  int    // bytes expected
	Got   int    // bytes received
	Magic uint32 // magic word seen, for ErrBadMagic
	Err   error  // underlying I/O error, if any
}

func (e *FrameError) Error() string {
	switch e.Kind {
	case ErrBadMagic:
		return fmt.Sprintf("frame %s: %v: expected 0x%08X, got 0x%08X", e.Stage, e.Kind, MagicWord, e.Magic)
	case ErrFrameTooLarge:
		return fmt.Sprintf("frame %s: %v: declared %d bytes, buffer holds %d", e.Stage, e.Kind, e.Got, e.Want)
	}
	if e.Err != nil {
		return fmt.Sprintf("frame %s: %v: got %d of %d bytes: %v", e.Stage, e.Kind, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("frame %s: %v: got %d of %d bytes", e.Stage, e.Kind, e.Got, e.Want)
}

// Unwrap exposes both the error kind and the underlying I/O error.
func (e *FrameError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// DecodeError reports a scan-data body whose contents are inconsistent.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrDecode, e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

func decodeErrorf(field, format string, args ...interface{}) error {
	return &DecodeError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
