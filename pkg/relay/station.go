// Package relay runs the transceiver as a relay station: packets heard over
// the air go to the uplink, packets from the downlink go over the air.
package relay

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/rksnider/SensorCollar/pkg/cc1120"
	"github.com/rksnider/SensorCollar/pkg/uplink"
)

// Radio is the part of *cc1120.Driver the station uses.
type Radio interface {
	Transmit(payload string, deadline time.Duration) (cc1120.TxOutcome, error)
	Receive(n int, listen, readout time.Duration) ([]byte, cc1120.RxOutcome, error)
	RecoverFIFO(pollCount int) (cc1120.Status, error)
}

// Params are the handshake timings of the station loop.
type Params struct {
	TxDeadline  time.Duration
	PacketSize  int
	Listen      time.Duration
	Readout     time.Duration
	StatusPolls int
}

// DefaultParams match a 20 byte packet at the default register settings.
var DefaultParams = Params{
	TxDeadline:  cc1120.DefaultTxDeadline,
	PacketSize:  20,
	Listen:      time.Second,
	Readout:     cc1120.DefaultReadoutTimeout,
	StatusPolls: 3,
}

// Station alternates between sending queued downlink packets and listening.
// Each packet is transmitted once, outcomes are only counted.
type Station struct {
	ID       string
	Radio    Radio
	Uplink   uplink.PacketWriter
	Downlink <-chan []byte
	Params   Params
	// ReportTX also sends transmitted packets to the uplink.
	ReportTX bool
	Now      func() time.Time

	Stats Stats
}

// Run implements Runnable. It returns on ctx done or a bus failure.
func (s *Station) Run(ctx context.Context) error {
	glog.Infof("station %s running", s.ID)
	defer func() { glog.Infof("station %s stopped: %v", s.ID, s.Stats.Snapshot()) }()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
}

// Step sends the downlink packets pending when it starts, then listens
// once. Packets arriving meanwhile wait for the next Step.
func (s *Station) Step(ctx context.Context) error {
	for pending := len(s.Downlink); pending > 0; pending-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkt, ok := s.nextDownlink()
		if !ok {
			break
		}
		if err := s.transmit(pkt); err != nil {
			return err
		}
	}
	return s.receive()
}

func (s *Station) nextDownlink() ([]byte, bool) {
	if s.Downlink == nil {
		return nil, false
	}
	select {
	case pkt, ok := <-s.Downlink:
		if !ok {
			s.Downlink = nil
		}
		return pkt, ok
	default:
		return nil, false
	}
}

func (s *Station) transmit(pkt []byte) error {
	outcome, err := s.Radio.Transmit(cc1120.EncodePayload(pkt), s.Params.TxDeadline)
	if err != nil {
		if isBusError(err) {
			return err
		}
		s.Stats.inc(&s.Stats.TxRejected)
		glog.Warningf("downlink packet rejected: %v", err)
		return nil
	}
	switch outcome {
	case cc1120.TxCompleted:
		s.Stats.inc(&s.Stats.TxCompleted)
		if s.ReportTX {
			s.publish(pkt, DirectionTX)
		}
	case cc1120.TxNotStarted:
		s.Stats.inc(&s.Stats.TxNotStarted)
	case cc1120.TxFailed:
		s.Stats.inc(&s.Stats.TxFailed)
	}
	return s.recover()
}

func (s *Station) receive() error {
	pkt, outcome, err := s.Radio.Receive(s.Params.PacketSize, s.Params.Listen, s.Params.Readout)
	if err != nil {
		return err
	}
	switch outcome {
	case cc1120.RxReceived:
		s.Stats.inc(&s.Stats.RxReceived)
		s.publish(pkt, DirectionRX)
	case cc1120.RxNoPacket:
		s.Stats.inc(&s.Stats.RxNoPacket)
	case cc1120.RxFailed:
		s.Stats.inc(&s.Stats.RxFailed)
	}
	return s.recover()
}

func (s *Station) recover() error {
	st, err := s.Radio.RecoverFIFO(s.Params.StatusPolls)
	if err != nil {
		return err
	}
	switch st.State() {
	case cc1120.StateRXFIFOError, cc1120.StateTXFIFOError:
		s.Stats.inc(&s.Stats.Recoveries)
	}
	return nil
}

func (s *Station) publish(pkt []byte, dir Direction) {
	if s.Uplink == nil {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	env := &Envelope{
		Station:     s.ID,
		TimestampNs: now().UnixNano(),
		Payload:     pkt,
		Direction:   dir,
	}
	data, err := env.Encode()
	if err == nil {
		err = s.Uplink.WritePacket(data)
	}
	if err != nil {
		s.Stats.inc(&s.Stats.UplinkErrors)
		glog.Errorf("uplink %s packet: %v", dir, err)
	}
}

func isBusError(err error) bool {
	var busErr *cc1120.BusError
	return errors.As(err, &busErr)
}
