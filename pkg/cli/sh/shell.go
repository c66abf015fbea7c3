// Package sh is the interactive bench shell for the transceiver.
package sh

import (
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/rksnider/SensorCollar/pkg/board"
	"github.com/rksnider/SensorCollar/pkg/cc1120"
	"github.com/rksnider/SensorCollar/pkg/config"
)

// Transceiver is the driver surface the shell exercises.
type Transceiver interface {
	Initialize() error
	Transmit(payload string, deadline time.Duration) (cc1120.TxOutcome, error)
	Receive(n int, listen, readout time.Duration) ([]byte, cc1120.RxOutcome, error)
	Status(pollCount int) (cc1120.Status, error)
	RecoverFIFO(pollCount int) (cc1120.Status, error)
	FlushRX() error
	FlushTX() error
	Strobe(cmd cc1120.Command) error
}

// Opener opens the transceiver on first use.
type Opener func(*config.Config) (Transceiver, io.Closer, error)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell  *ishell.Shell
	Config *config.Config
	Open   Opener

	radio  Transceiver
	closer io.Closer
}

const (
	shellKey = "$shell"
	prompt   = "cc1120 > "
)

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&InitCmd,
		&TxCmd,
		&RxCmd,
		&StatusCmd,
		&FlushCmd,
		&StrobeCmd,
		&RecoverCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// OpenBoard opens the transceiver on the board from cfg.
func OpenBoard(cfg *config.Config) (Transceiver, io.Closer, error) {
	b, err := board.Open(cfg.Board)
	if err != nil {
		return nil, nil, err
	}
	return cc1120.New(b.Bus, b.Line, cfg.Radio.DriverOptions()), b, nil
}

// New creates a new shell.
func New(cfg *config.Config, open Opener) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Config:      cfg,
		Open:        open,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Radio returns the transceiver, opening it if needed.
func (s *Shell) Radio() (Transceiver, error) {
	if s.radio != nil {
		return s.radio, nil
	}
	if s.Open == nil {
		return nil, fmt.Errorf("no transceiver")
	}
	radio, closer, err := s.Open(s.Config)
	if err != nil {
		return nil, err
	}
	s.radio, s.closer = radio, closer
	return radio, nil
}

// Close releases the transceiver.
func (s *Shell) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.radio, s.closer = nil, nil
	return err
}

// WithRadio wraps command funcs requiring the transceiver.
func WithRadio(fn func(c *ishell.Context, s *Shell, radio Transceiver) (string, error)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		radio, err := s.Radio()
		if err != nil {
			c.Err(err)
			return
		}
		out, err := fn(c, s, radio)
		if err != nil {
			c.Err(err)
			return
		}
		if out != "" {
			c.Println(out)
		}
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
// config.SetupFlags must have been called.
func Main() {
	flag.Parse()
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	New(cfg, OpenBoard).Run(flag.Args()...)
}
