// Package cc1120 drives a TI CC1120 packet radio over SPI.
package cc1120

// The driver speaks only command strobes, burst FIFO access and a single
// handshake line (a GPIO configured on the chip to follow packet events).
// The chip's protocol state is never mirrored locally: every transmit and
// receive is a self-contained sequence of bus writes and deadline-bounded
// polls which always ends with an idle strobe, so the chip is back in IDLE
// when the call returns.
//
// Timing failures are reported as outcomes (TxOutcome, RxOutcome), never as
// errors. The caller is expected to check Status afterwards and flush the
// matching FIFO on a FIFO error state; RecoverFIFO does both.
//
// A Driver assumes exclusive ownership of the bus and the line and is not
// safe for concurrent use.
