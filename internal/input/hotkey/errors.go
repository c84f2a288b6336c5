package hotkey

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	// ErrInvalidFormat indicates the string has the wrong number of "+" separated parts.
	ErrInvalidFormat = errors.New("invalid hotkey format")

	// ErrInvalidModifier indicates the modifier part is not in the supported vocabulary.
	ErrInvalidModifier = errors.New("invalid modifier")

	// ErrInvalidKey indicates the key part is not alphanumeric or a navigation key.
	ErrInvalidKey = errors.New("invalid key")
)

// ParseError describes why a hotkey string was rejected.
type ParseError struct {
	// Input is the full hotkey string.
	Input string
	// Part is the offending part, empty for format errors.
	Part string
	// Err is one of ErrInvalidFormat, ErrInvalidModifier or ErrInvalidKey.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidFormat):
		return fmt.Sprintf("%v: expected a key or a modifier followed by a key, got %q", e.Err, e.Input)
	case errors.Is(e.Err, ErrInvalidModifier):
		return fmt.Sprintf("%v %q: expected one of %v", e.Err, e.Part, supportedModifiers)
	default:
		return fmt.Sprintf("%v %q: expected a single alphanumeric character or a navigation key", e.Err, e.Part)
	}
}

// Unwrap returns the underlying sentinel.
func (e *ParseError) Unwrap() error {
	return e.Err
}
