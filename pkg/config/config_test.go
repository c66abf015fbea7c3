package config

import (
	"errors"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rksnider/SensorCollar/pkg/cc1120"
)

func writeFile(t *testing.T, content string) string {
	f, err := ioutil.TempFile("", "relay-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
board:
  spi_port: SPI1.0
  handshake_pin: GPIO25
radio:
  image_path: /etc/relay/mode.mif
  packet_size: 32
  listen: 250ms
relay:
  station_id: ridge
  mqtt_url: mqtt://broker:1883/collar/
  redis_addr: localhost:6379
  redis_max_len: 1000
`)
	defer os.Remove(path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SPI1.0", cfg.Board.SPIPort)
	assert.Equal(t, "GPIO25", cfg.Board.HandshakePin)
	assert.EqualValues(t, 500000, cfg.Board.SPIHz)
	assert.Equal(t, "/etc/relay/mode.mif", cfg.Radio.ImagePath)
	assert.Equal(t, 32, cfg.Radio.PacketSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Radio.Listen)
	assert.Equal(t, cc1120.DefaultTxDeadline, cfg.Radio.TxDeadline)
	assert.Equal(t, "ridge", cfg.Relay.StationID)
	assert.EqualValues(t, 1000, cfg.Relay.RedisMaxLen)
	assert.NoError(t, Validate(cfg))

	params := cfg.Radio.Params()
	assert.Equal(t, 32, params.PacketSize)
	assert.Equal(t, cfg.Radio.ReadoutTimeout, params.Readout)
	opts := cfg.Radio.DriverOptions()
	assert.Equal(t, "/etc/relay/mode.mif", opts.ImagePath)
	assert.Equal(t, cc1120.DefaultMinBytesPerField, opts.MinBytesPerField)
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeFile(t, "radio:\n  packet_sise: 20\n")
	defer os.Remove(path)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/relay.yaml")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadEmpty(t *testing.T) {
	path := writeFile(t, "")
	defer os.Remove(path)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{EnvStationID: "s9", EnvMQTTURL: "mqtt://b/"}
	cfg.ApplyEnv(func(key string) string { return env[key] })
	assert.Equal(t, "s9", cfg.Relay.StationID)
	assert.Equal(t, "mqtt://b/", cfg.Relay.MQTTURL)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"spi hz", func(c *Config) { c.Board.SPIHz = 0 }},
		{"pin", func(c *Config) { c.Board.HandshakePin = "" }},
		{"image", func(c *Config) { c.Radio.ImagePath = "" }},
		{"min bytes", func(c *Config) { c.Radio.MinBytesPerField = 0 }},
		{"packet size zero", func(c *Config) { c.Radio.PacketSize = 0 }},
		{"packet size too large", func(c *Config) { c.Radio.PacketSize = cc1120.FIFOSize }},
		{"listen", func(c *Config) { c.Radio.Listen = 0 }},
		{"ready timeout", func(c *Config) { c.Radio.ReadyTimeout = -time.Second }},
		{"poll interval", func(c *Config) { c.Radio.PollInterval = -1 }},
		{"status polls", func(c *Config) { c.Radio.StatusPolls = 0 }},
		{"station", func(c *Config) { c.Relay.StationID = "" }},
		{"mqtt scheme", func(c *Config) { c.Relay.MQTTURL = "http://broker/" }},
		{"redis max len", func(c *Config) { c.Relay.RedisMaxLen = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Relay.StationID = "s1"
			tc.modify(cfg)
			err := Validate(cfg)
			assert.True(t, errors.Is(err, ErrInvalid), "%v", err)
		})
	}

	cfg := Default()
	cfg.Relay.StationID = "s1"
	assert.NoError(t, Validate(cfg))
}

func TestStationID(t *testing.T) {
	id := StationID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, StationID())
}

func TestValidateReportsFirstBadDuration(t *testing.T) {
	for i := 0; i < 20; i++ {
		cfg := Default()
		cfg.Relay.StationID = "s1"
		cfg.Radio.ReadyTimeout = 0
		cfg.Radio.Listen = -time.Second
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "radio.ready_timeout")
		assert.NotContains(t, err.Error(), "radio.listen")
	}
}
