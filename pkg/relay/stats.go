package relay

import (
	"fmt"
	"sync/atomic"
)

// Stats counts handshake outcomes. Safe for concurrent reads.
type Stats struct {
	TxCompleted  uint64
	TxNotStarted uint64
	TxFailed     uint64
	TxRejected   uint64
	RxReceived   uint64
	RxNoPacket   uint64
	RxFailed     uint64
	Recoveries   uint64
	UplinkErrors uint64
}

func (s *Stats) inc(p *uint64) {
	atomic.AddUint64(p, 1)
}

// Snapshot returns a consistent-enough copy.
func (s *Stats) Snapshot() Stats {
	return Stats{
		TxCompleted:  atomic.LoadUint64(&s.TxCompleted),
		TxNotStarted: atomic.LoadUint64(&s.TxNotStarted),
		TxFailed:     atomic.LoadUint64(&s.TxFailed),
		TxRejected:   atomic.LoadUint64(&s.TxRejected),
		RxReceived:   atomic.LoadUint64(&s.RxReceived),
		RxNoPacket:   atomic.LoadUint64(&s.RxNoPacket),
		RxFailed:     atomic.LoadUint64(&s.RxFailed),
		Recoveries:   atomic.LoadUint64(&s.Recoveries),
		UplinkErrors: atomic.LoadUint64(&s.UplinkErrors),
	}
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("tx ok=%d not-started=%d failed=%d rejected=%d, rx ok=%d none=%d failed=%d, recoveries=%d uplink-errors=%d",
		s.TxCompleted, s.TxNotStarted, s.TxFailed, s.TxRejected,
		s.RxReceived, s.RxNoPacket, s.RxFailed, s.Recoveries, s.UplinkErrors)
}
