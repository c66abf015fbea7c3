package board

import (
	"periph.io/x/periph/conn/spi"
)

// SPIBus adapts a periph spi.Conn to the transceiver's byte channel.
// Every call is exactly one chip-select transaction.
type SPIBus struct {
	conn spi.Conn
}

// NewSPIBus wraps conn.
func NewSPIBus(conn spi.Conn) *SPIBus {
	return &SPIBus{conn: conn}
}

// Write clocks p out, discarding what comes back.
func (b *SPIBus) Write(p []byte) error {
	return b.conn.Tx(p, nil)
}

// Read clocks out n zero bytes and returns what was read.
func (b *SPIBus) Read(n int) ([]byte, error) {
	r := make([]byte, n)
	if err := b.conn.Tx(make([]byte, n), r); err != nil {
		return nil, err
	}
	return r, nil
}

// Transfer clocks w out and returns the bytes read at the same time.
func (b *SPIBus) Transfer(w []byte) ([]byte, error) {
	r := make([]byte, len(w))
	if err := b.conn.Tx(w, r); err != nil {
		return nil, err
	}
	return r, nil
}

// String implements fmt.Stringer.
func (b *SPIBus) String() string {
	return b.conn.String()
}
