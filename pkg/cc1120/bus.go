package cc1120

import "periph.io/x/periph/conn/gpio"

// Bus is the byte-level SPI channel to the chip.
type Bus interface {
	// Write clocks p out in a single transaction.
	Write(p []byte) error
	// Read clocks in exactly n bytes.
	Read(n int) ([]byte, error)
	// Transfer clocks w out while reading the same number of bytes back.
	Transfer(w []byte) ([]byte, error)
}

// Line is the handshake signal driven by the chip. gpio.PinIn satisfies it.
type Line interface {
	Read() gpio.Level
}
