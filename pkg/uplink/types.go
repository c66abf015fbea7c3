// Package uplink moves packets between the relay station and the outside
// world. Received radio packets are written to an uplink, packets to be
// transmitted arrive on a downlink channel.
package uplink

import (
	fx "github.com/rksnider/SensorCollar/pkg/framework"
)

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// MultiWriter writes every packet to all writers. A failing writer does not
// stop the others, failures are aggregated.
type MultiWriter []PacketWriter

// WritePacket implements PacketWriter.
func (w MultiWriter) WritePacket(pkt []byte) error {
	var errs fx.AggregatedError
	for _, pw := range w {
		errs.Add(pw.WritePacket(pkt))
	}
	return errs.Aggregate()
}

// Discard is a PacketWriter which drops everything.
var Discard PacketWriter = discard{}

type discard struct{}

func (discard) WritePacket([]byte) error { return nil }
