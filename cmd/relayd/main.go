package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/rksnider/SensorCollar/pkg/board"
	"github.com/rksnider/SensorCollar/pkg/cc1120"
	"github.com/rksnider/SensorCollar/pkg/config"
	fx "github.com/rksnider/SensorCollar/pkg/framework"
	"github.com/rksnider/SensorCollar/pkg/relay"
	"github.com/rksnider/SensorCollar/pkg/uplink"
	"github.com/rksnider/SensorCollar/pkg/uplink/mqtt"
	"github.com/rksnider/SensorCollar/pkg/uplink/redis"
	"github.com/rksnider/SensorCollar/pkg/uplink/stream"
	"github.com/rksnider/SensorCollar/pkg/uplink/websocket"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	err := run()
	glog.Flush()
	if err != nil {
		glog.Exit(err)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	b, err := board.Open(cfg.Board)
	if err != nil {
		return err
	}
	defer b.Close()

	drv := cc1120.New(b.Bus, b.Line, cfg.Radio.DriverOptions())
	if err := drv.Initialize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	downlink := make(chan []byte, cfg.Relay.DownlinkQueue)
	links, err := openUplinks(cfg.Relay, downlink)
	if err != nil {
		return err
	}
	defer links.Close()

	station := &relay.Station{
		ID:       cfg.Relay.StationID,
		Radio:    drv,
		Uplink:   links.Writers,
		Downlink: downlink,
		Params:   cfg.Radio.Params(),
		ReportTX: cfg.Relay.ReportTX,
	}
	return fx.NewRunner().HandleSignals().
		Go(fx.NamedRun("station", station)).
		Go(links.Runnables...).
		Wait()
}

type uplinks struct {
	Writers   uplink.MultiWriter
	Runnables []fx.Runnable

	closers []io.Closer
}

func (u *uplinks) Close() error {
	var errs fx.AggregatedError
	for _, c := range u.closers {
		errs.Add(c.Close())
	}
	return errs.Aggregate()
}

func openUplinks(cfg config.Relay, downlink chan []byte) (*uplinks, error) {
	links := &uplinks{}

	if cfg.MQTTURL != "" {
		u, err := mqtt.NewUplink(cfg.MQTTURL, cfg.StationID, downlink)
		if err != nil {
			return nil, fmt.Errorf("mqtt: %w", err)
		}
		links.Writers = append(links.Writers, u)
		links.Runnables = append(links.Runnables, fx.NamedRun("mqtt", u))
	}

	if cfg.RedisAddr != "" {
		j := redis.NewJournal(cfg.RedisAddr, cfg.RedisKey, cfg.RedisMaxLen)
		if err := j.Ping(); err != nil {
			glog.Warningf("redis %s: %v", cfg.RedisAddr, err)
		}
		links.Writers = append(links.Writers, j)
		links.closers = append(links.closers, j)
	}

	if cfg.StreamAddr != "" || cfg.WebsocketAddr != "" {
		hub := uplink.NewHub(downlink)
		links.Writers = append(links.Writers, hub)
		if cfg.StreamAddr != "" {
			links.Runnables = append(links.Runnables, fx.NamedRun("stream",
				&stream.Server{Addr: cfg.StreamAddr, Hub: hub}))
		}
		if cfg.WebsocketAddr != "" {
			links.Runnables = append(links.Runnables, fx.NamedRun("websocket",
				&websocket.Server{Addr: cfg.WebsocketAddr, Hub: hub}))
		}
	}

	if len(links.Writers) == 0 {
		glog.Warning("no uplink configured, received packets are dropped")
	}
	return links, nil
}
