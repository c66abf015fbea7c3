package cc1120

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"

	"github.com/rksnider/SensorCollar/pkg/mif"
)

const shortWait = 10 * time.Millisecond

func newTestDriver(bus *fakeBus, line Line) *Driver {
	return New(bus, line, Options{ReadyTimeout: 20 * time.Millisecond})
}

func TestInitializeWith(t *testing.T) {
	bus := &fakeBus{reads: []byte{0x80, 0x80, 0x0F}}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	img := mif.Image{{0x00, 0x02}, {0x00, 0xB0}, {0x2F, 0x12, 0x00}}

	require.NoError(t, d.InitializeWith(img))
	require.Equal(t, []busOp{
		{'R', []byte{0}},
		{'R', []byte{0}},
		{'R', []byte{0}},
		{'W', []byte{0x00, 0xB0}},
		{'W', []byte{0x2F, 0x12, 0x00}},
	}, bus.ops)
}

func TestInitializeReadyTimeout(t *testing.T) {
	bus := &fakeBus{reads: []byte{0xFF}}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	err := d.InitializeWith(mif.Image{{0x01}, {0x00, 0xB0}})
	assert.Equal(t, ErrReadyTimeout, err)
	assert.Zero(t, bus.count('W'))
	assert.NotZero(t, bus.count('R'))
}

func TestInitializeBusErrors(t *testing.T) {
	bus := &fakeBus{reads: []byte{0x00}, failAt: 1}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	err := d.InitializeWith(mif.Image{{0x01}, {0x00, 0xB0}})
	var be *BusError
	require.True(t, errors.As(err, &be))
	assert.True(t, errors.Is(err, errBusDown))

	bus = &fakeBus{reads: []byte{0x00}, failAt: 3}
	d = newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	err = d.InitializeWith(mif.Image{{0x02}, {0x00, 0xB0}, {0x01, 0x06}, {0x02, 0x30}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBusDown))
	assert.Len(t, bus.ops, 3)
}

func TestInitializeEmptyImage(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	assert.Equal(t, mif.ErrEmptyImage, d.InitializeWith(nil))
	assert.Empty(t, bus.ops)
}

func TestInitializeMissingImage(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, &gpiotest.Pin{N: "GPIO3"}, Options{ImagePath: "/nonexistent/image.mif"})
	err := d.Initialize()
	var ioErr *mif.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Empty(t, bus.ops)
}

func TestTransmit(t *testing.T) {
	load := busOp{'W', []byte{0x7F, 8, 0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}}
	testCases := []struct {
		name    string
		line    Line
		outcome TxOutcome
	}{
		{
			"completed",
			&seqLine{levels: []gpio.Level{gpio.Low, gpio.Low, gpio.High, gpio.High, gpio.Low}},
			TxCompleted,
		},
		{
			"never asserted",
			&gpiotest.Pin{N: "GPIO3", L: gpio.Low},
			TxNotStarted,
		},
		{
			"never released",
			&seqLine{levels: []gpio.Level{gpio.Low, gpio.High}},
			TxFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := &fakeBus{}
			d := newTestDriver(bus, tc.line)
			outcome, err := d.Transmit("0x0123456789abcdef", shortWait)
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, outcome)
			require.Equal(t, []busOp{
				load,
				{'W', []byte{byte(STX)}},
				{'W', []byte{byte(SIDLE)}},
			}, bus.ops)
			assert.Equal(t, 1, bus.strobes(SIDLE))
		})
	}
}

func TestTransmitInvalidPayload(t *testing.T) {
	for _, payload := range []string{"", "0x", "0x123", "0xZZ", "12AB"} {
		bus := &fakeBus{}
		d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
		_, err := d.Transmit(payload, shortWait)
		assert.True(t, errors.Is(err, ErrInvalidPayload), "payload %q: %v", payload, err)
		assert.Empty(t, bus.ops)
	}
}

func TestTransmitTooLarge(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	_, err := d.Transmit(EncodePayload(make([]byte, FIFOSize)), shortWait)
	assert.True(t, errors.Is(err, ErrPacketTooLarge))
	assert.Empty(t, bus.ops)
}

func TestTransmitBusFailureStillIdles(t *testing.T) {
	bus := &fakeBus{failAt: 1}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	outcome, err := d.Transmit("0x01", shortWait)
	assert.Equal(t, TxNotStarted, outcome)
	assert.True(t, errors.Is(err, errBusDown))
	require.Len(t, bus.ops, 2)
	assert.Equal(t, busOp{'W', []byte{byte(SIDLE)}}, bus.ops[1])
}

func TestReceive(t *testing.T) {
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	bus := &fakeBus{
		transfer: func(w []byte) []byte {
			r := make([]byte, len(w))
			r[0] = 0x0F
			r[1] = byte(len(payload))
			copy(r[2:], payload)
			return r
		},
	}
	line := &seqLine{levels: []gpio.Level{gpio.Low, gpio.High, gpio.High, gpio.Low}}
	d := newTestDriver(bus, line)

	pkt, outcome, err := d.Receive(20, shortWait, shortWait)
	require.NoError(t, err)
	assert.Equal(t, RxReceived, outcome)
	require.Len(t, pkt, 20)
	assert.Equal(t, payload, pkt)

	req := make([]byte, 22)
	req[0] = byte(FIFOReadBurst)
	require.Equal(t, []busOp{
		{'W', []byte{byte(SRX)}},
		{'X', req},
		{'W', []byte{byte(SIDLE)}},
	}, bus.ops)
}

func TestReceiveNoPacket(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3", L: gpio.Low})
	pkt, outcome, err := d.Receive(20, shortWait, shortWait)
	require.NoError(t, err)
	assert.Equal(t, RxNoPacket, outcome)
	assert.Nil(t, pkt)
	assert.Zero(t, bus.count('R'))
	assert.Zero(t, bus.count('X'))
	require.Equal(t, []busOp{
		{'W', []byte{byte(SRX)}},
		{'W', []byte{byte(SIDLE)}},
	}, bus.ops)
}

func TestReceiveNotLoaded(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3", L: gpio.High})
	pkt, outcome, err := d.Receive(20, shortWait, shortWait)
	require.NoError(t, err)
	assert.Equal(t, RxFailed, outcome)
	assert.Nil(t, pkt)
	assert.Zero(t, bus.count('X'))
	assert.Equal(t, 1, bus.strobes(SIDLE))
}

func TestReceiveInvalidLength(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	_, _, err := d.Receive(0, shortWait, shortWait)
	assert.True(t, errors.Is(err, ErrInvalidLength))
	_, _, err = d.Receive(FIFOSize, shortWait, shortWait)
	assert.True(t, errors.Is(err, ErrPacketTooLarge))
	assert.Empty(t, bus.ops)
}

func TestReceiveTransferFailure(t *testing.T) {
	bus := &fakeBus{failAt: 2}
	line := &seqLine{levels: []gpio.Level{gpio.High, gpio.Low}}
	d := newTestDriver(bus, line)
	_, outcome, err := d.Receive(4, shortWait, shortWait)
	assert.Equal(t, RxFailed, outcome)
	assert.True(t, errors.Is(err, errBusDown))
	assert.Equal(t, 1, bus.strobes(SIDLE))
}

func TestStatus(t *testing.T) {
	bus := &fakeBus{reads: []byte{0xE0, 0xE0, 0x70}}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	st, err := d.Status(3)
	require.NoError(t, err)
	assert.Equal(t, "111", st.Bits())
	assert.Equal(t, StateTXFIFOError, st.State())
	assert.Equal(t, 3, bus.count('R'))
}

func TestStatusPollCountFloor(t *testing.T) {
	bus := &fakeBus{reads: []byte{0x60}}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	st, err := d.Status(0)
	require.NoError(t, err)
	assert.Equal(t, "110", st.Bits())
	assert.Equal(t, 1, bus.count('R'))
}

func TestRecoverFIFO(t *testing.T) {
	testCases := []struct {
		name   string
		status byte
		flush  []busOp
	}{
		{"tx error", 0x70, []busOp{{'W', []byte{byte(SFTX)}}}},
		{"rx error", 0x60, []busOp{{'W', []byte{byte(SFRX)}}}},
		{"idle", 0x00, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := &fakeBus{reads: []byte{tc.status}}
			d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
			st, err := d.RecoverFIFO(1)
			require.NoError(t, err)
			assert.Equal(t, Status(tc.status), st)
			if tc.flush == nil {
				assert.Len(t, bus.ops, 1)
			} else {
				assert.Equal(t, tc.flush, bus.ops[1:])
			}
		})
	}
}

func TestFlush(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	require.NoError(t, d.FlushRX())
	require.NoError(t, d.FlushTX())
	assert.Equal(t, []busOp{
		{'W', []byte{0x3A}},
		{'W', []byte{0x3B}},
	}, bus.ops)
}

func TestStrobeRejectsFIFOCommands(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDriver(bus, &gpiotest.Pin{N: "GPIO3"})
	for _, cmd := range []Command{FIFOWriteBurst, FIFOReadBurst, FIFOWriteSingle, FIFOReadSingle, 0x00} {
		assert.True(t, errors.Is(d.Strobe(cmd), ErrNotStrobe), "%v", cmd)
	}
	assert.Empty(t, bus.ops)
}
