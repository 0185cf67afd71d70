package server

import (
	"log/slog"
	"net"

	"google.golang.org/grpc"

	"github.com/izihawa/beetle/internal/store"
	"github.com/izihawa/beetle/pkg/metrics"
	"github.com/izihawa/beetle/pkg/rpc"
)

// Server serves the store RPC surface over a listener. The listener may
// come from any address variant, including the in-process channel.
type Server struct {
	grpc *grpc.Server
}

// New wires a content database into a gRPC server. A nil metrics value
// disables request metering but keeps logging.
func New(st *store.Store, m *metrics.Metrics) *Server {
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryObserver(m)))
	rpc.RegisterStoreServer(gs, &service{store: st, metrics: m})
	return &Server{grpc: gs}
}

// Serve blocks serving the store service on the listener until the
// server stops.
func (s *Server) Serve(lis net.Listener) error {
	slog.Info("store rpc server listening", "addr", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// GracefulStop drains in-flight RPCs and stops the server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}
