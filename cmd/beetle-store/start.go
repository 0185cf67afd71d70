package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/izihawa/beetle/internal/node"
	"github.com/izihawa/beetle/pkg/logging"
	"github.com/izihawa/beetle/pkg/rpc"
)

const shutdownTimeout = 10 * time.Second

func newStartCmd() *cobra.Command {
	var configFile string
	var path string
	var addr string
	var logLevel string
	var logFormat string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the store node",
		Long: `Run the store node.

Configuration merges in order: built-in defaults, the config file
(` + "~/.beetle/store.config.toml" + ` or --config), environment variables
prefixed with BEETLE_STORE, and finally the flags below.

Examples:
  beetle-store start
  beetle-store start --path /data/beetle --addr grpc://0.0.0.0:4402
  beetle-store start --config /etc/beetle/store.config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logLevel, logFormat)

			cfg, err := loadConfig(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if path != "" {
				cfg.Path = path
			}
			if addr != "" {
				parsed, err := rpc.ParseAddr(addr)
				if err != nil {
					return fmt.Errorf("parse --addr: %w", err)
				}
				cfg.RPCClient.StoreAddr = parsed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			n, err := node.Start(ctx, cfg)
			if err != nil {
				return fmt.Errorf("start node: %w", err)
			}

			serveDone := make(chan error, 1)
			go func() { serveDone <- n.Wait() }()

			select {
			case <-ctx.Done():
			case err := <-serveDone:
				if err != nil {
					_ = n.Close(context.Background())
					return fmt.Errorf("serve: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return n.Close(shutdownCtx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path")
	f.StringVar(&path, "path", "", "content database path (default ~/.beetle/store)")
	f.StringVar(&addr, "addr", "", "rpc listen address (default grpc://0.0.0.0:4402)")
	f.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringVar(&logFormat, "log-format", "text", "log format (json, text)")

	return cmd
}
