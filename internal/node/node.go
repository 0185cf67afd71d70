// Package node assembles a running store node from its configuration:
// content database, RPC server, and telemetry.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/izihawa/beetle/internal/server"
	"github.com/izihawa/beetle/internal/store"
	"github.com/izihawa/beetle/pkg/metrics"
	"github.com/izihawa/beetle/pkg/rpc"
)

// ErrNoRPCAddr is returned by Start when the configuration carries no
// store address to serve on.
var ErrNoRPCAddr = errors.New("node: no rpc address configured")

// Node is a running store node.
type Node struct {
	cfg      store.Config
	store    *store.Store
	server   *server.Server
	shutdown *shutdownCoordinator

	serveErr chan error
}

// Start brings up a store node from its configuration: opens the content
// database at cfg.Path, derives the listen address from the client-facing
// address, and serves the store RPC surface. The in-process address
// variant is served directly on its shared channel.
func Start(ctx context.Context, cfg store.Config) (*Node, error) {
	serverAddr, err := serveAddr(cfg)
	if err != nil {
		return nil, err
	}
	if serverAddr == nil {
		return nil, ErrNoRPCAddr
	}

	n := &Node{cfg: cfg, shutdown: &shutdownCoordinator{}, serveErr: make(chan error, 1)}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	n.store = st
	n.shutdown.register("content-database", func(context.Context) error {
		return st.Close()
	})

	m := metrics.New(cfg.Metrics)
	m.StartPush(ctx)
	if srv := m.ServeDebug(); srv != nil {
		n.shutdown.register("metrics-debug-server", func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	_, stopTracer, err := metrics.InitTracer(ctx, cfg.Metrics)
	if err != nil {
		n.close(ctx)
		return nil, err
	}
	n.shutdown.register("tracer", stopTracer)

	lis, err := rpc.Listen(ctx, serverAddr)
	if err != nil {
		n.close(ctx)
		return nil, err
	}

	n.server = server.New(st, m)
	n.shutdown.register("rpc-server", func(context.Context) error {
		n.server.GracefulStop()
		return nil
	})

	go func() {
		n.serveErr <- n.server.Serve(lis)
	}()

	slog.Info("store node started", "path", cfg.Path, "addr", serverAddr.String())
	return n, nil
}

// serveAddr decides where the node listens. Network client addresses
// derive their server form; a mem client address is served directly on
// the shared channel.
func serveAddr(cfg store.Config) (rpc.Addr, error) {
	if mem, ok := cfg.RPCClient.StoreAddr.(rpc.MemAddr); ok {
		return mem, nil
	}
	addr, err := cfg.ServerRPCAddr()
	if err != nil {
		return nil, fmt.Errorf("derive server rpc address: %w", err)
	}
	return addr, nil
}

// Wait blocks until the RPC server stops serving.
func (n *Node) Wait() error {
	return <-n.serveErr
}

// Close stops the node, tearing components down in reverse start order.
func (n *Node) Close(ctx context.Context) error {
	return n.close(ctx)
}

func (n *Node) close(ctx context.Context) error {
	return n.shutdown.shutdown(ctx)
}
