package uplink

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroken = errors.New("broken")

// chanRW reads from in and records writes.
type chanRW struct {
	in       chan []byte
	writeErr error

	lock    sync.Mutex
	written [][]byte
	closed  bool
}

func newChanRW() *chanRW {
	return &chanRW{in: make(chan []byte, 4)}
}

func (c *chanRW) ReadPacket() ([]byte, error) {
	pkt, ok := <-c.in
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (c *chanRW) WritePacket(pkt []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.written = append(c.written, pkt)
	return nil
}

func (c *chanRW) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.closed = true
	return nil
}

func (c *chanRW) isClosed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.closed
}

func (c *chanRW) packets() [][]byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.written
}

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			require.FailNow(t, "condition not met")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestMultiWriter(t *testing.T) {
	a, b, bad := newChanRW(), newChanRW(), newChanRW()
	bad.writeErr = errBroken

	err := MultiWriter{a, bad, b}.WritePacket([]byte{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, [][]byte{{1}}, a.packets())
	assert.Equal(t, [][]byte{{1}}, b.packets())

	assert.NoError(t, MultiWriter{a}.WritePacket([]byte{2}))
	assert.NoError(t, MultiWriter{}.WritePacket([]byte{3}))
	assert.NoError(t, Discard.WritePacket([]byte{4}))
}

func TestHub(t *testing.T) {
	down := make(chan []byte, 1)
	hub := NewHub(down)
	client := newChanRW()

	done := make(chan error, 1)
	go func() { done <- hub.Serve(context.Background(), client) }()
	waitFor(t, func() bool { return hub.Len() == 1 })

	require.NoError(t, hub.WritePacket([]byte{0xAB}))
	assert.Equal(t, [][]byte{{0xAB}}, client.packets())

	client.in <- []byte{0xCD}
	assert.Equal(t, []byte{0xCD}, <-down)

	close(client.in)
	assert.Equal(t, io.EOF, <-done)
	assert.Equal(t, 0, hub.Len())
}

func TestHubDropsFailingClient(t *testing.T) {
	hub := NewHub(nil)
	bad := newChanRW()
	bad.writeErr = errBroken
	hub.attach(bad)

	require.NoError(t, hub.WritePacket([]byte{1}))
	assert.Equal(t, 0, hub.Len())
	assert.True(t, bad.isClosed())
}
