package cc1120

import (
	"errors"

	"periph.io/x/periph/conn/gpio"
)

type busOp struct {
	Kind byte // 'W', 'R' or 'X'
	Data []byte
}

// fakeBus records every transaction. Reads are served from reads in order,
// the last entry repeating once exhausted.
type fakeBus struct {
	ops      []busOp
	reads    []byte
	transfer func(w []byte) []byte
	failAt   int // 1-based transaction index to fail, 0 never
}

var errBusDown = errors.New("bus down")

func (b *fakeBus) fail() bool {
	return b.failAt > 0 && len(b.ops) == b.failAt
}

func (b *fakeBus) Write(p []byte) error {
	b.ops = append(b.ops, busOp{Kind: 'W', Data: append([]byte(nil), p...)})
	if b.fail() {
		return errBusDown
	}
	return nil
}

func (b *fakeBus) Read(n int) ([]byte, error) {
	b.ops = append(b.ops, busOp{Kind: 'R', Data: make([]byte, n)})
	if b.fail() {
		return nil, errBusDown
	}
	out := make([]byte, n)
	for i := range out {
		if len(b.reads) == 0 {
			break
		}
		out[i] = b.reads[0]
		if len(b.reads) > 1 {
			b.reads = b.reads[1:]
		}
	}
	return out, nil
}

func (b *fakeBus) Transfer(w []byte) ([]byte, error) {
	b.ops = append(b.ops, busOp{Kind: 'X', Data: append([]byte(nil), w...)})
	if b.fail() {
		return nil, errBusDown
	}
	if b.transfer != nil {
		return b.transfer(w), nil
	}
	return make([]byte, len(w)), nil
}

func (b *fakeBus) count(kind byte) int {
	var n int
	for _, op := range b.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (b *fakeBus) strobes(cmd Command) int {
	var n int
	for _, op := range b.ops {
		if op.Kind == 'W' && len(op.Data) == 1 && op.Data[0] == byte(cmd) {
			n++
		}
	}
	return n
}

// seqLine replays levels, holding the last one.
type seqLine struct {
	levels []gpio.Level
	reads  int
}

func (l *seqLine) Read() gpio.Level {
	i := l.reads
	l.reads++
	if i >= len(l.levels) {
		return l.levels[len(l.levels)-1]
	}
	return l.levels[i]
}
