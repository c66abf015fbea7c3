// Package stream frames packets over byte streams and serves them on TCP.
package stream

import (
	"context"
	"net"

	"github.com/golang/glog"

	fx "github.com/rksnider/SensorCollar/pkg/framework"
	"github.com/rksnider/SensorCollar/pkg/uplink"
)

// Server accepts TCP clients and attaches them to a Hub.
type Server struct {
	Addr string
	Hub  *uplink.Hub
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("stream uplink listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go s.serveConn(ctx, conn)
		}
	})
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	rw := New(conn)
	err := fx.RunWithContextCloser(ctx, rw, func() error {
		return s.Hub.Serve(ctx, rw)
	})
	glog.V(1).Infof("stream client %s gone: %v", conn.RemoteAddr(), err)
}
