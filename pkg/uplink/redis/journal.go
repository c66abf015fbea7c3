// Package redis journals packets into a Redis list.
package redis

import (
	"github.com/go-redis/redis"
)

// DefaultKey is the list packets are appended to.
const DefaultKey = "relay:rx"

// Journal implements PacketWriter by appending every packet to a list.
type Journal struct {
	Client *redis.Client
	Key    string
	// MaxLen keeps only the newest MaxLen packets, 0 keeps all.
	MaxLen int64
}

// NewJournal connects to the Redis server at addr.
func NewJournal(addr, key string, maxLen int64) *Journal {
	if key == "" {
		key = DefaultKey
	}
	return &Journal{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Key:    key,
		MaxLen: maxLen,
	}
}

// Ping checks the server is reachable.
func (j *Journal) Ping() error {
	return j.Client.Ping().Err()
}

// WritePacket implements PacketWriter.
func (j *Journal) WritePacket(pkt []byte) error {
	_, err := j.Client.Pipelined(func(pipe redis.Pipeliner) error {
		pipe.RPush(j.Key, pkt)
		if j.MaxLen > 0 {
			pipe.LTrim(j.Key, -j.MaxLen, -1)
		}
		return nil
	})
	return err
}

// Packets returns the journaled packets, oldest first.
func (j *Journal) Packets() ([][]byte, error) {
	vals, err := j.Client.LRange(j.Key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	pkts := make([][]byte, len(vals))
	for n, v := range vals {
		pkts[n] = []byte(v)
	}
	return pkts, nil
}

// Close implements io.Closer.
func (j *Journal) Close() error {
	return j.Client.Close()
}
