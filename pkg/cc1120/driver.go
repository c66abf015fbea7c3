package cc1120

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/gpio"

	"github.com/rksnider/SensorCollar/pkg/mif"
)

// Defaults applied by New.
const (
	DefaultImagePath        = "CC1120_DEFAULT_MODE.mif"
	DefaultMinBytesPerField = 2
	// DefaultReadyTimeout bounds the wait for CHIP_RDYn during Initialize.
	DefaultReadyTimeout = time.Second
	// DefaultTxDeadline is enough for a 20 byte packet at the default
	// register settings.
	DefaultTxDeadline     = 200 * time.Millisecond
	DefaultReadoutTimeout = 30 * time.Second
)

// TxOutcome is the result of a transmit handshake.
type TxOutcome int

// Transmit outcomes.
const (
	TxNotStarted TxOutcome = iota
	TxFailed
	TxCompleted
)

// String implements fmt.Stringer.
func (o TxOutcome) String() string {
	switch o {
	case TxNotStarted:
		return "not started"
	case TxFailed:
		return "failed"
	case TxCompleted:
		return "completed"
	}
	return fmt.Sprintf("TxOutcome(%d)", int(o))
}

// RxOutcome is the result of a receive handshake.
type RxOutcome int

// Receive outcomes.
const (
	RxNoPacket RxOutcome = iota
	RxFailed
	RxReceived
)

// String implements fmt.Stringer.
func (o RxOutcome) String() string {
	switch o {
	case RxNoPacket:
		return "no packet"
	case RxFailed:
		return "receive failed"
	case RxReceived:
		return "received"
	}
	return fmt.Sprintf("RxOutcome(%d)", int(o))
}

// Options configures a Driver.
type Options struct {
	// ImagePath is the register image applied by Initialize.
	ImagePath string
	// MinBytesPerField is the minimum width of every register write.
	MinBytesPerField int
	// ReadyTimeout bounds the wait for the chip ready flag.
	ReadyTimeout time.Duration
	// PollInterval is the sleep between handshake polls, 0 to spin.
	PollInterval time.Duration
}

// Driver implements the transceiver protocol on top of a Bus and a Line.
type Driver struct {
	bus  Bus
	line Line
	opts Options
}

// New creates a Driver. Zero options are replaced by defaults.
func New(bus Bus, line Line, opts Options) *Driver {
	if opts.ImagePath == "" {
		opts.ImagePath = DefaultImagePath
	}
	if opts.MinBytesPerField <= 0 {
		opts.MinBytesPerField = DefaultMinBytesPerField
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}
	return &Driver{bus: bus, line: line, opts: opts}
}

// Options returns the effective options.
func (d *Driver) Options() Options {
	return d.opts
}

// Initialize loads the register image and applies it.
func (d *Driver) Initialize() error {
	img, err := mif.Load(d.opts.ImagePath, d.opts.MinBytesPerField)
	if err != nil {
		return err
	}
	return d.InitializeWith(img)
}

// InitializeWith drops the count record of img, waits for the chip to
// report ready and writes the remaining entries in order.
func (d *Driver) InitializeWith(img mif.Image) error {
	writes, err := img.Payload()
	if err != nil {
		return err
	}
	if err := d.waitReady(); err != nil {
		return err
	}
	for n, w := range writes {
		if err := d.write("register write", w); err != nil {
			return fmt.Errorf("register write %d of %d: %w", n+1, len(writes), err)
		}
	}
	glog.Infof("transceiver initialized with %d register writes", len(writes))
	return nil
}

func (d *Driver) waitReady() error {
	var readErr error
	ready := PollUntil(d.opts.ReadyTimeout, d.opts.PollInterval, func() bool {
		b, err := d.read("ready poll", 1)
		if err != nil {
			readErr = err
			return true
		}
		return Status(b[0]).Ready()
	})
	if readErr != nil {
		return readErr
	}
	if !ready {
		glog.Errorf("chip not ready after %v", d.opts.ReadyTimeout)
		return ErrReadyTimeout
	}
	return nil
}

// Transmit loads payload (0xHH..HH) into the TX FIFO, strobes TX and waits
// up to deadline for the handshake line to rise and then up to deadline
// again for it to fall. Timeouts are reported in the outcome; err is only
// set for invalid payloads or bus failures.
func (d *Driver) Transmit(payload string, deadline time.Duration) (outcome TxOutcome, err error) {
	data, err := DecodePayload(payload)
	if err != nil {
		return TxNotStarted, err
	}
	if len(data) > MaxPacketLen {
		return TxNotStarted, fmt.Errorf("%d bytes: %w", len(data), ErrPacketTooLarge)
	}

	defer d.toIdle(&err)

	cmd := make([]byte, 0, len(data)+2)
	cmd = append(cmd, byte(FIFOWriteBurst), byte(len(data)))
	cmd = append(cmd, data...)
	if err = d.write("tx fifo load", cmd); err != nil {
		return TxNotStarted, err
	}
	if err = d.Strobe(STX); err != nil {
		return TxNotStarted, err
	}
	if !d.waitLine(gpio.High, deadline) {
		glog.Warning("data transmission error: transmission not started")
		return TxNotStarted, nil
	}
	glog.V(1).Info("transmission started")
	if !d.waitLine(gpio.Low, deadline) {
		glog.Warning("data transmission error: transmission failed")
		return TxFailed, nil
	}
	glog.V(1).Infof("transmitted %d bytes", len(data))
	return TxCompleted, nil
}

// Receive strobes RX and waits up to listen for a packet, then up to
// readout for it to be loaded into the RX FIFO, then reads n payload
// bytes out with a burst read.
func (d *Driver) Receive(n int, listen, readout time.Duration) (pkt []byte, outcome RxOutcome, err error) {
	if n <= 0 {
		return nil, RxFailed, fmt.Errorf("%d: %w", n, ErrInvalidLength)
	}
	if n > MaxPacketLen {
		return nil, RxFailed, fmt.Errorf("%d bytes: %w", n, ErrPacketTooLarge)
	}

	defer d.toIdle(&err)

	if err = d.Strobe(SRX); err != nil {
		return nil, RxNoPacket, err
	}
	if !d.waitLine(gpio.High, listen) {
		glog.V(1).Info("no packet received")
		return nil, RxNoPacket, nil
	}
	glog.V(1).Info("packet received")
	if !d.waitLine(gpio.Low, readout) {
		glog.Warning("receive failed: packet not loaded")
		return nil, RxFailed, nil
	}

	// opcode and length byte come back ahead of the payload.
	req := make([]byte, n+2)
	req[0] = byte(FIFOReadBurst)
	var resp []byte
	if resp, err = d.transfer("rx fifo read", req); err != nil {
		return nil, RxFailed, err
	}
	if int(resp[1]) != n {
		glog.V(1).Infof("length byte %d, expected %d", resp[1], n)
	}
	return resp[2:], RxReceived, nil
}

// FlushRX flushes the RX FIFO.
func (d *Driver) FlushRX() error {
	if err := d.Strobe(SFRX); err != nil {
		return err
	}
	glog.V(1).Info("RX FIFO flushed")
	return nil
}

// FlushTX flushes the TX FIFO.
func (d *Driver) FlushTX() error {
	if err := d.Strobe(SFTX); err != nil {
		return err
	}
	glog.V(1).Info("TX FIFO flushed")
	return nil
}

// Strobe issues a command strobe.
func (d *Driver) Strobe(cmd Command) error {
	if !cmd.IsStrobe() {
		return fmt.Errorf("cc1120: %v: %w", cmd, ErrNotStrobe)
	}
	return d.write(cmd.String(), []byte{byte(cmd)})
}

// Status reads the status byte pollCount times and returns the last one.
// The earlier reads give the chip time to settle.
func (d *Driver) Status(pollCount int) (Status, error) {
	if pollCount < 1 {
		pollCount = 1
	}
	var last byte
	for i := 0; i < pollCount; i++ {
		b, err := d.read("status", 1)
		if err != nil {
			return 0, err
		}
		last = b[0]
	}
	return Status(last), nil
}

// RecoverFIFO reads the status and flushes the FIFO reported in error.
func (d *Driver) RecoverFIFO(pollCount int) (Status, error) {
	st, err := d.Status(pollCount)
	if err != nil {
		return st, err
	}
	switch st.State() {
	case StateTXFIFOError:
		glog.Warning("TX FIFO error, flushing")
		err = d.FlushTX()
	case StateRXFIFOError:
		glog.Warning("RX FIFO error, flushing")
		err = d.FlushRX()
	}
	return st, err
}

func (d *Driver) toIdle(errp *error) {
	if err := d.Strobe(SIDLE); err != nil && *errp == nil {
		*errp = err
	}
}

func (d *Driver) waitLine(level gpio.Level, timeout time.Duration) bool {
	return PollUntil(timeout, d.opts.PollInterval, func() bool {
		return d.line.Read() == level
	})
}

func (d *Driver) write(op string, p []byte) error {
	if glog.V(2) {
		glog.Infof("W %s % x", op, p)
	}
	if err := d.bus.Write(p); err != nil {
		return &BusError{Op: op, Err: err}
	}
	return nil
}

func (d *Driver) read(op string, n int) ([]byte, error) {
	p, err := d.bus.Read(n)
	if err != nil {
		return nil, &BusError{Op: op, Err: err}
	}
	if len(p) != n {
		return nil, &BusError{Op: op, Err: ErrShortResponse}
	}
	if glog.V(2) {
		glog.Infof("R %s % x", op, p)
	}
	return p, nil
}

func (d *Driver) transfer(op string, w []byte) ([]byte, error) {
	if glog.V(2) {
		glog.Infof("X %s % x", op, w)
	}
	r, err := d.bus.Transfer(w)
	if err != nil {
		return nil, &BusError{Op: op, Err: err}
	}
	if len(r) != len(w) {
		return nil, &BusError{Op: op, Err: ErrShortResponse}
	}
	if glog.V(2) {
		glog.Infof("X %s -> % x", op, r)
	}
	return r, nil
}
