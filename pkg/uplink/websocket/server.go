package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/rksnider/SensorCollar/pkg/framework"
	"github.com/rksnider/SensorCollar/pkg/uplink"
)

// DefaultPath is where the packet feed is mounted.
const DefaultPath = "/packets"

// Handler attaches every websocket client to hub.
func Handler(hub *uplink.Hub) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		err := hub.Serve(conn.Request().Context(), New(conn))
		glog.V(1).Infof("websocket client %s gone: %v", conn.Request().RemoteAddr, err)
	})
}

// Server serves the packet feed over HTTP.
type Server struct {
	Addr string
	Path string
	Hub  *uplink.Hub
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, Handler(s.Hub))
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("websocket uplink listening on %s%s", s.Addr, path)
	return fx.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
}
