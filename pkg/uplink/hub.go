package uplink

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// Hub fans packets out to a changing set of connected clients and collects
// what the clients send into a downlink channel.
type Hub struct {
	// Downlink receives packets read from clients. If nil, inbound packets
	// are dropped.
	Downlink chan<- []byte

	lock    sync.RWMutex
	clients map[PacketReadWriter]struct{}
}

// NewHub creates a Hub.
func NewHub(downlink chan<- []byte) *Hub {
	return &Hub{Downlink: downlink, clients: make(map[PacketReadWriter]struct{})}
}

// Serve attaches rw until it fails to read or ctx is done.
func (h *Hub) Serve(ctx context.Context, rw PacketReadWriter) error {
	h.attach(rw)
	defer h.detach(rw)
	for {
		pkt, err := rw.ReadPacket()
		if err != nil {
			return err
		}
		if h.Downlink == nil {
			continue
		}
		select {
		case h.Downlink <- pkt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WritePacket implements PacketWriter. Clients failing the write are
// dropped and never fail the write.
func (h *Hub) WritePacket(pkt []byte) error {
	h.lock.RLock()
	clients := make([]PacketReadWriter, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.lock.RUnlock()
	for _, c := range clients {
		if err := c.WritePacket(pkt); err != nil {
			glog.Warningf("drop client: %v", err)
			h.detach(c)
			if closer, ok := c.(io.Closer); ok {
				closer.Close()
			}
		}
	}
	return nil
}

// Len returns the number of attached clients.
func (h *Hub) Len() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

func (h *Hub) attach(rw PacketReadWriter) {
	h.lock.Lock()
	if h.clients == nil {
		h.clients = make(map[PacketReadWriter]struct{})
	}
	h.clients[rw] = struct{}{}
	h.lock.Unlock()
	glog.V(1).Infof("client attached (%d)", h.Len())
}

func (h *Hub) detach(rw PacketReadWriter) {
	h.lock.Lock()
	delete(h.clients, rw)
	h.lock.Unlock()
}
