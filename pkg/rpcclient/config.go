// Package rpcclient describes how the services of a beetle deployment are
// reached from a client's point of view, and provides typed clients for
// them.
package rpcclient

import (
	"github.com/izihawa/beetle/pkg/config"
	"github.com/izihawa/beetle/pkg/rpc"
)

// Config addresses the beetle services a client may talk to. Absent
// addresses mean the corresponding service is not reachable from this
// configuration.
type Config struct {
	GatewayAddr rpc.Addr `mapstructure:"gateway_addr"`
	P2PAddr     rpc.Addr `mapstructure:"p2p_addr"`
	StoreAddr   rpc.Addr `mapstructure:"store_addr"`

	// Channels is the number of concurrent client channels opened per
	// service.
	Channels int `mapstructure:"channels"`
}

// Default returns a client configuration with no addresses set.
func Default() Config {
	return Config{Channels: 1}
}

// Collect flattens the configuration for the merge engine. Unset
// addresses are omitted rather than written as empty strings.
func (c Config) Collect() (map[string]any, error) {
	m := make(map[string]any)
	if c.GatewayAddr != nil {
		m["gateway_addr"] = c.GatewayAddr.String()
	}
	if c.P2PAddr != nil {
		m["p2p_addr"] = c.P2PAddr.String()
	}
	if c.StoreAddr != nil {
		m["store_addr"] = c.StoreAddr.String()
	}
	m["channels"] = c.Channels
	return m, nil
}

// CloneSource returns an independent copy for the merge engine.
func (c Config) CloneSource() config.Source {
	return c
}
