package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/izihawa/beetle/internal/store"
	"github.com/izihawa/beetle/pkg/rpc"
)

// defaultHomeDir returns the beetle home directory (~/.beetle).
func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".beetle"
	}
	return filepath.Join(home, ".beetle")
}

// loadConfig merges the defaults layer, the optional well-known config
// file (or an explicit one), and environment variables. Flag overrides
// are applied by the caller after loading.
func loadConfig(configFile string) (store.Config, error) {
	defaults := store.NewConfigGRPC(filepath.Join(defaultHomeDir(), "store"))

	if configFile == "" {
		wellKnown := filepath.Join(defaultHomeDir(), store.ConfigFileName)
		if _, err := os.Stat(wellKnown); err == nil {
			configFile = wellKnown
		}
	} else if _, err := os.Stat(configFile); err != nil {
		return store.Config{}, fmt.Errorf("config file %s: %w", configFile, err)
	}

	return store.LoadConfig(defaults, configFile)
}

// clientConfig resolves the address client commands dial: an explicit
// --addr flag wins over the merged node configuration.
func clientConfig(addrFlag, configFile string) (store.Config, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return store.Config{}, err
	}
	if addrFlag != "" {
		addr, err := rpc.ParseAddr(addrFlag)
		if err != nil {
			return store.Config{}, err
		}
		cfg.RPCClient.StoreAddr = addr
	}
	return cfg, nil
}
