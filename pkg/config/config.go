// Package config loads the relay station configuration.
//
// Values are resolved in order: built-in defaults, the YAML station file,
// environment variables and finally command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"gopkg.in/yaml.v3"

	"github.com/rksnider/SensorCollar/pkg/board"
	"github.com/rksnider/SensorCollar/pkg/cc1120"
	"github.com/rksnider/SensorCollar/pkg/relay"
)

// Environment variables.
const (
	EnvConfig    = "RELAY_CONFIG"
	EnvStationID = "RELAY_STATION_ID"
	EnvMQTTURL   = "RELAY_MQTT_URL"
)

// DefaultPollInterval keeps handshake polling off a busy spin.
const DefaultPollInterval = time.Millisecond

// Config is the station file.
type Config struct {
	Board board.Config `yaml:"board"`
	Radio Radio        `yaml:"radio"`
	Relay Relay        `yaml:"relay"`
}

// Radio configures the driver and the handshake timings.
type Radio struct {
	ImagePath        string        `yaml:"image_path"`
	MinBytesPerField int           `yaml:"min_bytes_per_field"`
	ReadyTimeout     time.Duration `yaml:"ready_timeout"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	TxDeadline       time.Duration `yaml:"tx_deadline"`
	PacketSize       int           `yaml:"packet_size"`
	Listen           time.Duration `yaml:"listen"`
	ReadoutTimeout   time.Duration `yaml:"readout_timeout"`
	StatusPolls      int           `yaml:"status_polls"`
}

// Relay configures the station identity and its uplinks. Empty addresses
// disable the corresponding uplink.
type Relay struct {
	StationID     string `yaml:"station_id"`
	MQTTURL       string `yaml:"mqtt_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisKey      string `yaml:"redis_key"`
	RedisMaxLen   int64  `yaml:"redis_max_len"`
	StreamAddr    string `yaml:"stream_addr"`
	WebsocketAddr string `yaml:"websocket_addr"`
	ReportTX      bool   `yaml:"report_tx"`
	DownlinkQueue int    `yaml:"downlink_queue"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Board: board.Config{
			SPIHz:        board.DefaultSPIHz,
			HandshakePin: board.DefaultHandshakePin,
		},
		Radio: Radio{
			ImagePath:        cc1120.DefaultImagePath,
			MinBytesPerField: cc1120.DefaultMinBytesPerField,
			ReadyTimeout:     cc1120.DefaultReadyTimeout,
			PollInterval:     DefaultPollInterval,
			TxDeadline:       relay.DefaultParams.TxDeadline,
			PacketSize:       relay.DefaultParams.PacketSize,
			Listen:           relay.DefaultParams.Listen,
			ReadoutTimeout:   relay.DefaultParams.Readout,
			StatusPolls:      relay.DefaultParams.StatusPolls,
		},
		Relay: Relay{
			DownlinkQueue: 16,
		},
	}
}

// Load reads a station file on top of the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if val := getenv(EnvStationID); val != "" {
		c.Relay.StationID = val
	}
	if val := getenv(EnvMQTTURL); val != "" {
		c.Relay.MQTTURL = val
	}
}

// DriverOptions converts to the driver options.
func (r Radio) DriverOptions() cc1120.Options {
	return cc1120.Options{
		ImagePath:        r.ImagePath,
		MinBytesPerField: r.MinBytesPerField,
		ReadyTimeout:     r.ReadyTimeout,
		PollInterval:     r.PollInterval,
	}
}

// Params converts to the station loop timings.
func (r Radio) Params() relay.Params {
	return relay.Params{
		TxDeadline:  r.TxDeadline,
		PacketSize:  r.PacketSize,
		Listen:      r.Listen,
		Readout:     r.ReadoutTimeout,
		StatusPolls: r.StatusPolls,
	}
}

// StationID returns a stable identity derived from the machine ID, so a
// station keeps its ID without configuration.
func StationID() string {
	id, err := machineid.ProtectedID("cc1120-relay")
	if err != nil || len(id) < 12 {
		host, _ := os.Hostname()
		if host == "" {
			host = "relay"
		}
		return host
	}
	return id[:12]
}

var (
	configPath = os.Getenv(EnvConfig)

	flagStationID string
	flagMQTTURL   string
	flagImagePath string
)

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&configPath, "config", configPath, "Station config file (YAML).")
	flag.StringVar(&flagStationID, "station", "", "Station ID, overrides the config.")
	flag.StringVar(&flagMQTTURL, "mqtt", "", "MQTT broker URL, overrides the config.")
	flag.StringVar(&flagImagePath, "image", "", "Register image (MIF), overrides the config.")
}

// NewConfig resolves the effective configuration after flag.Parse.
func NewConfig() (*Config, error) {
	cfg := Default()
	if configPath != "" {
		var err error
		if cfg, err = Load(configPath); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if flagStationID != "" {
		cfg.Relay.StationID = flagStationID
	}
	if flagMQTTURL != "" {
		cfg.Relay.MQTTURL = flagMQTTURL
	}
	if flagImagePath != "" {
		cfg.Radio.ImagePath = flagImagePath
	}
	if cfg.Relay.StationID == "" {
		cfg.Relay.StationID = StationID()
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid config")
