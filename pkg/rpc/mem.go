package rpc

import (
	"context"
	"net"

	"google.golang.org/grpc/test/bufconn"
)

const memBufSize = 1 << 20

// MemChannel is the shared handle behind a MemAddr. The server side uses
// it as a listener, the client side dials through it. Both ends must hold
// the same channel; there is nothing to bind or resolve.
type MemChannel struct {
	lis *bufconn.Listener
}

// NewMemChannel creates an in-process channel.
func NewMemChannel() *MemChannel {
	return &MemChannel{lis: bufconn.Listen(memBufSize)}
}

// Listener returns the server end of the channel.
func (c *MemChannel) Listener() net.Listener { return c.lis }

// DialContext opens a client connection through the channel. The target
// argument is ignored; it exists to satisfy grpc.WithContextDialer.
func (c *MemChannel) DialContext(ctx context.Context, _ string) (net.Conn, error) {
	return c.lis.DialContext(ctx)
}

// Close tears down the channel. Pending and future dials fail.
func (c *MemChannel) Close() error { return c.lis.Close() }
