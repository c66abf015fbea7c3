package mqtt

import (
	"context"

	"github.com/golang/glog"
)

// Topic suffixes under the station ID.
const (
	TopicRX     = "rx"
	TopicTX     = "tx"
	TopicOnline = "online"
)

// Uplink publishes received packets to <station>/rx and forwards packets
// published to <station>/tx into Downlink. <station>/online is retained as
// "1" while connected and "0" otherwise.
type Uplink struct {
	Queue    *Queue
	Station  string
	Downlink chan<- []byte
}

// NewUplink creates an Uplink from a broker URL.
func NewUplink(brokerURL, station string, downlink chan<- []byte) (*Uplink, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+station+"/"+TopicOnline, []byte("0"), 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("relay:" + station)
	}
	u := &Uplink{
		Queue:    NewQueue(opts, topicPrefix),
		Station:  station,
		Downlink: downlink,
	}
	u.Queue.OnConnect = func(q *Queue) {
		q.PubWith(u.topic(TopicOnline), []byte("1"), 1, true)
	}
	return u, nil
}

// WritePacket implements PacketWriter.
func (u *Uplink) WritePacket(pkt []byte) error {
	token := u.Queue.Pub(u.topic(TopicRX), pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable.
func (u *Uplink) Run(ctx context.Context) error {
	token := u.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	sub := u.Queue.Sub(u.topic(TopicTX), u.handleTX(ctx))
	<-ctx.Done()
	sub.Close()
	u.Queue.PubWith(u.topic(TopicOnline), []byte("0"), 1, true).Wait()
	u.Queue.Close()
	return ctx.Err()
}

func (u *Uplink) handleTX(ctx context.Context) Handler {
	return func(_ string, payload []byte) {
		if u.Downlink == nil {
			return
		}
		select {
		case u.Downlink <- payload:
		case <-ctx.Done():
		default:
			glog.Warningf("downlink full, dropped %d bytes", len(payload))
		}
	}
}

func (u *Uplink) topic(suffix string) string {
	return u.Station + "/" + suffix
}
