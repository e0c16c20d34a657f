package slcb

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic     = errors.New("bad magic")
	ErrTruncated    = errors.New("truncated container")
	ErrInflate      = errors.New("inflate failed")
	ErrSizeMismatch = errors.New("decompressed size mismatch")
)

// FormatError reports a container that cannot be trusted. It is terminal for
// the file: nothing downstream retries or guesses an alternate layout.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("slcb: %v", e.Err)
	}
	return fmt.Sprintf("slcb: %v: %s", e.Err, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(kind error, format string, args ...interface{}) *FormatError {
	return &FormatError{
		Reason: fmt.Sprintf(format, args...),
		Err:    kind,
	}
}
