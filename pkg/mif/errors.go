package mif

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRadix indicates a payload line appeared before DATA_RADIX.
	ErrNoRadix = errors.New("payload before DATA_RADIX")
	// ErrUnsupportedRadix indicates DATA_RADIX is neither HEX nor DEC.
	ErrUnsupportedRadix = errors.New("unsupported radix")
	// ErrInvalidValue indicates the payload field is not a non-negative
	// number under the active radix.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMalformedLine indicates the data markers are out of order.
	ErrMalformedLine = errors.New("malformed payload line")
	// ErrLineTooLong indicates a line beyond the scanner limit.
	ErrLineTooLong = errors.New("line too long")
	// ErrEmptyImage indicates an image without the leading count record.
	ErrEmptyImage = errors.New("empty register image")
)

// FormatError reports malformed register image text.
type FormatError struct {
	Line int
	Text string
	Err  error
}

// Error implements error.
func (e *FormatError) Error() string {
	return fmt.Sprintf("mif: line %d %q: %v", e.Line, e.Text, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IOError reports a register image source which can't be opened or read.
type IOError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mif: read: %v", e.Err)
	}
	return fmt.Sprintf("mif: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}
