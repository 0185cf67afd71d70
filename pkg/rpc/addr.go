// Package rpc defines how a beetle node's services are addressed and
// reached: the closed set of endpoint variants (network socket, unix
// domain socket, in-process channel), transport setup for each variant,
// and the wire surface of the store service.
package rpc

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// Scheme prefixes for the textual address forms.
const (
	schemeGRPC = "grpc://"
	schemeUDS  = "grpc+uds://"
)

// Addr describes one endpoint of a beetle RPC service. The set of
// implementations is closed: TCPAddr, UDSAddr, and MemAddr. Code that
// switches over the variants must handle all three.
type Addr interface {
	// Network returns the transport network name ("tcp", "unix", "mem").
	Network() string
	// String returns the textual form of the address.
	String() string

	isAddr()
}

// TCPAddr is a host/port endpoint reached over gRPC ("grpc://host:port").
type TCPAddr struct {
	Addr netip.AddrPort
}

func (TCPAddr) Network() string { return "tcp" }

func (a TCPAddr) String() string { return schemeGRPC + a.Addr.String() }

func (TCPAddr) isAddr() {}

// UDSAddr is a unix domain socket endpoint ("grpc+uds:///path/to.sock").
type UDSAddr struct {
	Path string
}

func (UDSAddr) Network() string { return "unix" }

func (a UDSAddr) String() string { return schemeUDS + a.Path }

func (UDSAddr) isAddr() {}

// MemAddr is an in-process endpoint. Client and server share the same
// channel handle and exchange bytes without touching the network stack.
// A MemAddr has no textual form that can be parsed back: the handle only
// exists inside the process that created it.
type MemAddr struct {
	ch *MemChannel
}

// NewMemAddr creates an in-process address backed by a fresh channel.
func NewMemAddr() MemAddr {
	return MemAddr{ch: NewMemChannel()}
}

func (MemAddr) Network() string { return "mem" }

func (MemAddr) String() string { return "mem" }

// Channel returns the shared in-process channel handle.
func (a MemAddr) Channel() *MemChannel { return a.ch }

func (MemAddr) isAddr() {}

// ParseAddr parses the textual form of a network address. Supported forms
// are "grpc://host:port" and "grpc+uds:///path/to.sock". The "mem" form is
// rejected: a mem address is a live handle, not a description.
func ParseAddr(s string) (Addr, error) {
	switch {
	case strings.HasPrefix(s, schemeGRPC):
		ap, err := netip.ParseAddrPort(strings.TrimPrefix(s, schemeGRPC))
		if err != nil {
			return nil, fmt.Errorf("parse rpc address %q: %w", s, err)
		}
		return TCPAddr{Addr: ap}, nil
	case strings.HasPrefix(s, schemeUDS):
		path := strings.TrimPrefix(s, schemeUDS)
		if path == "" {
			return nil, fmt.Errorf("parse rpc address %q: empty socket path", s)
		}
		return UDSAddr{Path: path}, nil
	case s == "mem":
		return nil, errors.New("mem addresses cannot be parsed from text")
	default:
		return nil, fmt.Errorf("unknown rpc address scheme in %q", s)
	}
}
