package store

import (
	"fmt"
	"unicode/utf8"

	"github.com/izihawa/beetle/pkg/config"
	"github.com/izihawa/beetle/pkg/metrics"
	"github.com/izihawa/beetle/pkg/rpc"
	"github.com/izihawa/beetle/pkg/rpcclient"
)

// ConfigFileName is the name of the optional config file located in the
// beetle home directory.
const ConfigFileName = "store.config.toml"

// EnvPrefix is used alongside the config field name to set a config field
// using environment variables. For example, BEETLE_STORE_PATH=/path/to/db
// sets the value of the path field.
const EnvPrefix = "BEETLE_STORE"

// defaultGRPCAddr is the well-known address a store node listens on when
// no address is configured.
const defaultGRPCAddr = "grpc://0.0.0.0:4402"

// Config is the configuration for one store node. It is a pure value:
// constructed once, never mutated; reconfiguration means merging a fresh
// value from defaults and overrides.
type Config struct {
	// Path is the root of the content database on disk.
	Path string `mapstructure:"path"`

	RPCClient rpcclient.Config `mapstructure:"rpc_client"`
	Metrics   metrics.Config   `mapstructure:"metrics"`
}

// NewConfigWithRPC builds a store configuration with the given content
// database path and client-facing store address. Every other field takes
// its default.
func NewConfigWithRPC(path string, clientAddr rpc.Addr) Config {
	rpcCfg := rpcclient.Default()
	rpcCfg.StoreAddr = clientAddr
	return Config{
		Path:      path,
		RPCClient: rpcCfg,
		Metrics:   metrics.Default(),
	}
}

// NewConfigGRPC builds a store configuration listening on the well-known
// gRPC address on all interfaces. The address literal is a program
// invariant; failing to parse it is a bug, not a runtime condition.
func NewConfigGRPC(path string) Config {
	addr, err := rpc.ParseAddr(defaultGRPCAddr)
	if err != nil {
		panic(fmt.Sprintf("store: default rpc address %q does not parse: %v", defaultGRPCAddr, err))
	}
	return NewConfigWithRPC(path, addr)
}

// ServerRPCAddr derives the listen address for the store service from the
// client-facing address in the configuration. Network addresses map to
// themselves: the server binds where clients connect. No configured
// address yields (nil, nil). A mem address cannot be derived: the shared
// in-process handle is used directly by both sides, so there is no
// separate server endpoint to produce.
func (c Config) ServerRPCAddr() (rpc.Addr, error) {
	switch addr := c.RPCClient.StoreAddr.(type) {
	case nil:
		return nil, nil
	case rpc.TCPAddr:
		return addr, nil
	case rpc.UDSAddr:
		return addr, nil
	case rpc.MemAddr:
		return nil, fmt.Errorf("cannot derive server rpc address for mem address")
	default:
		panic(fmt.Sprintf("store: unhandled rpc address variant %T", addr))
	}
}

// Collect flattens the configuration into its three merge keys. The
// nested blocks contribute their own fragments.
func (c Config) Collect() (map[string]any, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("no path set, path is required")
	}
	if !utf8.ValidString(c.Path) {
		return nil, fmt.Errorf("path %q is not valid text", c.Path)
	}

	rpcMap, err := c.RPCClient.Collect()
	if err != nil {
		return nil, err
	}
	metricsMap, err := c.Metrics.Collect()
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"path":       c.Path,
		"rpc_client": rpcMap,
		"metrics":    metricsMap,
	}, nil
}

// CloneSource returns an independent copy for the merge engine.
func (c Config) CloneSource() config.Source {
	return c
}

// LoadConfig merges defaults, an optional config file, and environment
// variables into a store configuration. An empty configFile means no file
// layer; a named file must exist and parse.
func LoadConfig(defaults Config, configFile string) (Config, error) {
	b := config.NewBuilder().AddSource(defaults)
	if configFile != "" {
		b.AddFile(configFile)
	}
	b.AddEnv(EnvPrefix)

	merged, err := b.Build()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := merged.Decode(&cfg, rpc.AddrDecodeHook()); err != nil {
		return Config{}, err
	}
	if cfg.Path == "" {
		return Config{}, fmt.Errorf("no path set, path is required")
	}
	return cfg, nil
}
