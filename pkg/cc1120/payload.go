package cc1120

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// FIFOSize is the capacity of each of the chip's FIFOs.
	FIFOSize = 128
	// MaxPacketLen is the largest payload, leaving room for the length byte.
	MaxPacketLen = FIFOSize - 1

	payloadPrefix = "0x"
)

// DecodePayload converts a 0xHHHH.. string into bytes, most significant first.
func DecodePayload(s string) ([]byte, error) {
	if len(s) < len(payloadPrefix) || !strings.EqualFold(s[:len(payloadPrefix)], payloadPrefix) {
		return nil, fmt.Errorf("%w: missing %s prefix", ErrInvalidPayload, payloadPrefix)
	}
	digits := s[len(payloadPrefix):]
	if len(digits) == 0 || len(digits)%2 != 0 {
		return nil, fmt.Errorf("%w: %d hex digits", ErrInvalidPayload, len(digits))
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return b, nil
}

// EncodePayload is the inverse of DecodePayload.
func EncodePayload(b []byte) string {
	return payloadPrefix + strings.ToUpper(hex.EncodeToString(b))
}
