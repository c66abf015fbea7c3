package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rksnider/SensorCollar/pkg/cc1120"
)

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if cfg.Board.SPIHz <= 0 {
		return invalid("board.spi_hz must be positive")
	}
	if cfg.Board.HandshakePin == "" {
		return invalid("board.handshake_pin is required")
	}

	r := cfg.Radio
	if r.ImagePath == "" {
		return invalid("radio.image_path is required")
	}
	if r.MinBytesPerField < 1 {
		return invalid("radio.min_bytes_per_field must be at least 1")
	}
	if r.PacketSize < 1 || r.PacketSize > cc1120.MaxPacketLen {
		return invalid("radio.packet_size %d out of range 1..%d", r.PacketSize, cc1120.MaxPacketLen)
	}
	for _, f := range []struct {
		name string
		d    time.Duration
	}{
		{"ready_timeout", r.ReadyTimeout},
		{"tx_deadline", r.TxDeadline},
		{"listen", r.Listen},
		{"readout_timeout", r.ReadoutTimeout},
	} {
		if f.d <= 0 {
			return invalid("radio.%s must be positive", f.name)
		}
	}
	if r.PollInterval < 0 {
		return invalid("radio.poll_interval must not be negative")
	}
	if r.StatusPolls < 1 {
		return invalid("radio.status_polls must be at least 1")
	}

	rl := cfg.Relay
	if rl.StationID == "" {
		return invalid("relay.station_id is required")
	}
	if rl.MQTTURL != "" {
		u, err := url.Parse(rl.MQTTURL)
		if err != nil {
			return invalid("relay.mqtt_url: %v", err)
		}
		switch u.Scheme {
		case "mqtt", "tcp", "ssl", "tls", "ws", "wss":
		default:
			return invalid("relay.mqtt_url: unsupported scheme %q", u.Scheme)
		}
	}
	if rl.RedisMaxLen < 0 {
		return invalid("relay.redis_max_len must not be negative")
	}
	if rl.DownlinkQueue < 0 {
		return invalid("relay.downlink_queue must not be negative")
	}
	return nil
}
