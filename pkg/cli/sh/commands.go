package sh

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/rksnider/SensorCollar/pkg/cc1120"
)

var (
	// InitCmd applies the register image.
	InitCmd = ishell.Cmd{
		Name:    "init",
		Aliases: []string{"i"},
		Help:    "apply the register image",
		Func:    WithRadio(doInit),
	}

	// TxCmd transmits a packet.
	TxCmd = ishell.Cmd{
		Name:    "tx",
		Aliases: []string{"t"},
		Help:    "0xPAYLOAD [DEADLINE]",
		Func:    WithRadio(doTx),
	}

	// RxCmd listens for a packet.
	RxCmd = ishell.Cmd{
		Name:    "rx",
		Aliases: []string{"r"},
		Help:    "[N [LISTEN [READOUT]]]",
		Func:    WithRadio(doRx),
	}

	// StatusCmd reads the status byte.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "[POLLS]",
		Func:    WithRadio(doStatus),
	}

	// FlushCmd flushes a FIFO.
	FlushCmd = ishell.Cmd{
		Name: "flush",
		Help: "rx|tx",
		Func: WithRadio(doFlush),
	}

	// StrobeCmd issues a command strobe by name.
	StrobeCmd = ishell.Cmd{
		Name: "strobe",
		Help: "SIDLE|SRX|STX|...",
		Func: WithRadio(doStrobe),
	}

	// RecoverCmd flushes a FIFO reported in error.
	RecoverCmd = ishell.Cmd{
		Name: "recover",
		Help: "[POLLS]",
		Func: WithRadio(doRecover),
	}
)

func doInit(_ *ishell.Context, s *Shell, radio Transceiver) (string, error) {
	if err := radio.Initialize(); err != nil {
		return "", err
	}
	return "OK", nil
}

func doTx(c *ishell.Context, s *Shell, radio Transceiver) (string, error) {
	if len(c.Args) < 1 {
		return "", fmt.Errorf("payload expected")
	}
	deadline, err := durationArg(c.Args, 1, s.Config.Radio.TxDeadline)
	if err != nil {
		return "", err
	}
	outcome, err := radio.Transmit(c.Args[0], deadline)
	if err != nil {
		return "", err
	}
	return outcome.String(), nil
}

func doRx(c *ishell.Context, s *Shell, radio Transceiver) (string, error) {
	n := s.Config.Radio.PacketSize
	if len(c.Args) > 0 {
		val, err := strconv.Atoi(c.Args[0])
		if err != nil {
			return "", fmt.Errorf("invalid length %q", c.Args[0])
		}
		n = val
	}
	listen, err := durationArg(c.Args, 1, s.Config.Radio.Listen)
	if err != nil {
		return "", err
	}
	readout, err := durationArg(c.Args, 2, s.Config.Radio.ReadoutTimeout)
	if err != nil {
		return "", err
	}
	pkt, outcome, err := radio.Receive(n, listen, readout)
	if err != nil {
		return "", err
	}
	if outcome != cc1120.RxReceived {
		return outcome.String(), nil
	}
	return cc1120.EncodePayload(pkt), nil
}

func doStatus(c *ishell.Context, s *Shell, radio Transceiver) (string, error) {
	polls, err := pollsArg(c.Args, s.Config.Radio.StatusPolls)
	if err != nil {
		return "", err
	}
	st, err := radio.Status(polls)
	if err != nil {
		return "", err
	}
	return st.String(), nil
}

func doFlush(c *ishell.Context, _ *Shell, radio Transceiver) (string, error) {
	if len(c.Args) != 1 {
		return "", fmt.Errorf("rx or tx expected")
	}
	var err error
	switch strings.ToLower(c.Args[0]) {
	case "rx":
		err = radio.FlushRX()
	case "tx":
		err = radio.FlushTX()
	default:
		return "", fmt.Errorf("unknown FIFO %q", c.Args[0])
	}
	if err != nil {
		return "", err
	}
	return "OK", nil
}

func doStrobe(c *ishell.Context, _ *Shell, radio Transceiver) (string, error) {
	if len(c.Args) != 1 {
		return "", fmt.Errorf("strobe name expected")
	}
	cmd, err := cc1120.ParseStrobe(strings.ToUpper(c.Args[0]))
	if err != nil {
		return "", err
	}
	if err := radio.Strobe(cmd); err != nil {
		return "", err
	}
	return "OK", nil
}

func doRecover(c *ishell.Context, s *Shell, radio Transceiver) (string, error) {
	polls, err := pollsArg(c.Args, s.Config.Radio.StatusPolls)
	if err != nil {
		return "", err
	}
	st, err := radio.RecoverFIFO(polls)
	if err != nil {
		return "", err
	}
	return st.String(), nil
}

func durationArg(args []string, n int, def time.Duration) (time.Duration, error) {
	if len(args) <= n {
		return def, nil
	}
	d, err := time.ParseDuration(args[n])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", args[n])
	}
	return d, nil
}

func pollsArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid poll count %q", args[0])
	}
	return n, nil
}
