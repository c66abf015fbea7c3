// Package board wires the transceiver to the host's SPI port and GPIO pins.
package board

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// Defaults for a BeagleBone with the radio on SPI0.0.
const (
	DefaultSPIHz        = 500000
	DefaultHandshakePin = "P8_10"
)

// ErrPinNotFound indicates the handshake pin is not known to the host.
var ErrPinNotFound = errors.New("gpio pin not found")

// Config selects the SPI port and the handshake pin.
type Config struct {
	// SPIPort is the spireg port name, empty for the first one.
	SPIPort string `yaml:"spi_port"`
	// SPIHz is the maximum SPI clock.
	SPIHz int64 `yaml:"spi_hz"`
	// HandshakePin is the gpioreg name of the pin wired to the chip's GPIO.
	HandshakePin string `yaml:"handshake_pin"`
}

// Board holds the opened peripherals.
type Board struct {
	Bus  *SPIBus
	Line gpio.PinIn

	port spi.PortCloser
}

// New creates a Board from already opened peripherals.
func New(conn spi.Conn, line gpio.PinIn) *Board {
	return &Board{Bus: NewSPIBus(conn), Line: line}
}

// Open initializes the host drivers and opens the configured peripherals.
func Open(cfg Config) (*Board, error) {
	if cfg.SPIHz <= 0 {
		cfg.SPIHz = DefaultSPIHz
	}
	if cfg.HandshakePin == "" {
		cfg.HandshakePin = DefaultHandshakePin
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("spi port %q: %w", cfg.SPIPort, err)
	}
	conn, err := port.Connect(physic.Frequency(cfg.SPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("spi connect: %w", err)
	}
	pin := gpioreg.ByName(cfg.HandshakePin)
	if pin == nil {
		port.Close()
		return nil, fmt.Errorf("%q: %w", cfg.HandshakePin, ErrPinNotFound)
	}
	if err := pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("gpio %s: %w", pin, err)
	}
	glog.Infof("opened %v at %v, handshake on %s", port, physic.Frequency(cfg.SPIHz)*physic.Hertz, pin)
	b := New(conn, pin)
	b.port = port
	return b, nil
}

// Close releases the SPI port. GPIO pins need no release.
func (b *Board) Close() error {
	if b.port == nil {
		return nil
	}
	return b.port.Close()
}
