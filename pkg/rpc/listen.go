package rpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Listen opens a listener for the given address variant. TCP and unix
// addresses bind through the OS; a mem address hands back the listener
// end of its in-process channel.
func Listen(ctx context.Context, addr Addr) (net.Listener, error) {
	switch a := addr.(type) {
	case TCPAddr:
		var lc net.ListenConfig
		lis, err := lc.Listen(ctx, "tcp", a.Addr.String())
		if err != nil {
			return nil, fmt.Errorf("listen %s: %w", a, err)
		}
		return lis, nil
	case UDSAddr:
		var lc net.ListenConfig
		lis, err := lc.Listen(ctx, "unix", a.Path)
		if err != nil {
			return nil, fmt.Errorf("listen %s: %w", a, err)
		}
		return lis, nil
	case MemAddr:
		return a.ch.Listener(), nil
	default:
		panic(fmt.Sprintf("rpc: unhandled address variant %T", addr))
	}
}

// Dial opens a client connection to the given address variant. The
// connection uses the beetle wire codec and no transport security;
// endpoints are expected to be local or on a trusted network.
func Dial(addr Addr, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wireCodec{})),
	}

	var target string
	switch a := addr.(type) {
	case TCPAddr:
		target = "passthrough:///" + a.Addr.String()
	case UDSAddr:
		target = "unix://" + a.Path
	case MemAddr:
		target = "passthrough:///mem"
		base = append(base, grpc.WithContextDialer(a.ch.DialContext))
	default:
		panic(fmt.Sprintf("rpc: unhandled address variant %T", addr))
	}

	conn, err := grpc.NewClient(target, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}
