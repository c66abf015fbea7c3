package cc1120

import "fmt"

// Status is the status byte returned by the chip on every SPI transaction.
// Bit 7 is CHIP_RDYn, bits 6..4 are the state field.
type Status byte

// State is the 3-bit chip state field.
type State uint8

// Chip states.
const (
	StateIdle State = iota
	StateRX
	StateTX
	StateFastTxOn
	StateCalibrate
	StateSettling
	StateRXFIFOError
	StateTXFIFOError
)

var stateNames = [...]string{
	"IDLE",
	"RX",
	"TX",
	"FSTXON",
	"CALIBRATE",
	"SETTLING",
	"RX_FIFO_ERROR",
	"TX_FIFO_ERROR",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// DecodeStatus extracts bits 6, 5, 4 of b as a string, e.g. "111".
func DecodeStatus(b byte) string {
	var bits [3]byte
	for i := range bits {
		if b&(0x40>>uint(i)) != 0 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits[:])
}

// Ready reports whether the chip ready flag is set (bit 7 clear).
func (s Status) Ready() bool {
	return s&0x80 == 0
}

// State returns the state field.
func (s Status) State() State {
	return State(s>>4) & 0x07
}

// Bits returns the state field as a bit string.
func (s Status) Bits() string {
	return DecodeStatus(byte(s))
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return fmt.Sprintf("0x%02X ready=%v state=%s", byte(s), s.Ready(), s.State())
}
