package cc1120

import "fmt"

// Command is a single-byte command understood by the chip.
type Command byte

// Command strobes.
const (
	SRES    Command = 0x30 // reset chip
	SFSTXON Command = 0x31 // enable and calibrate frequency synthesizer
	SXOFF   Command = 0x32 // crystal oscillator off when CSn is de-asserted
	SCAL    Command = 0x33 // calibrate frequency synthesizer
	SRX     Command = 0x34 // enter RX
	STX     Command = 0x35 // enter TX
	SIDLE   Command = 0x36 // exit RX/TX
	SAFC    Command = 0x37 // automatic frequency compensation
	SWOR    Command = 0x38 // start eWOR
	SPWD    Command = 0x39 // enter SLEEP
	SFRX    Command = 0x3A // flush RX FIFO
	SFTX    Command = 0x3B // flush TX FIFO
	SWORRST Command = 0x3C // reset eWOR timer
	SNOP    Command = 0x3D // no operation, returns status
)

// FIFO access commands.
const (
	FIFOWriteSingle Command = 0x3F
	FIFOWriteBurst  Command = 0x7F
	FIFOReadSingle  Command = 0xBF
	FIFOReadBurst   Command = 0xFF
)

var commandNames = map[Command]string{
	SRES:            "SRES",
	SFSTXON:         "SFSTXON",
	SXOFF:           "SXOFF",
	SCAL:            "SCAL",
	SRX:             "SRX",
	STX:             "STX",
	SIDLE:           "SIDLE",
	SAFC:            "SAFC",
	SWOR:            "SWOR",
	SPWD:            "SPWD",
	SFRX:            "SFRX",
	SFTX:            "SFTX",
	SWORRST:         "SWORRST",
	SNOP:            "SNOP",
	FIFOWriteSingle: "FIFO_WRITE",
	FIFOWriteBurst:  "FIFO_WRITE_BURST",
	FIFOReadSingle:  "FIFO_READ",
	FIFOReadBurst:   "FIFO_READ_BURST",
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// IsStrobe reports whether c is a command strobe.
func (c Command) IsStrobe() bool {
	return c >= SRES && c <= SNOP
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02X)", byte(c))
}

// ParseStrobe looks up a strobe by name, e.g. "SIDLE".
func ParseStrobe(name string) (Command, error) {
	for cmd, n := range commandNames {
		if n == name && cmd.IsStrobe() {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrNotStrobe)
}
