package chat

import "errors"

var (
	// ErrMissingValue matches parse failures caused by an absent required field.
	ErrMissingValue = errors.New("missing value")
	// ErrInvalidValue matches parse failures caused by a malformed field.
	ErrInvalidValue = errors.New("invalid value")
)

// ParseError reports why a frame could not become a Message. Kind is one of
// ErrMissingValue or ErrInvalidValue.
type ParseError struct {
	Kind  error
	Field string
}

func (e *ParseError) Error() string { return e.Kind.Error() + ": " + e.Field }

func (e *ParseError) Unwrap() error { return e.Kind }

func missingValue(field string) error { return &ParseError{Kind: ErrMissingValue, Field: field} }

func invalidValue(field string) error { return &ParseError{Kind: ErrInvalidValue, Field: field} }
