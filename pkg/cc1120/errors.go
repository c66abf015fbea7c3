package cc1120

import (
	"errors"
	"fmt"
)

var (
	// ErrReadyTimeout indicates the chip never cleared CHIP_RDYn while
	// initializing.
	ErrReadyTimeout = errors.New("chip not ready")
	// ErrNotStrobe indicates a non-strobe command passed as a strobe.
	ErrNotStrobe = errors.New("not a command strobe")
	// ErrInvalidPayload indicates a transmit payload not in 0xHH..HH form.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrPacketTooLarge indicates a packet which doesn't fit in the FIFO.
	ErrPacketTooLarge = errors.New("packet exceeds FIFO")
	// ErrInvalidLength indicates a non-positive expected packet length.
	ErrInvalidLength = errors.New("invalid packet length")
	// ErrShortResponse indicates the bus returned fewer bytes than clocked.
	ErrShortResponse = errors.New("short response")
)

// BusError wraps a failed bus transaction.
type BusError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *BusError) Error() string {
	return fmt.Sprintf("cc1120: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BusError) Unwrap() error {
	return e.Err
}
