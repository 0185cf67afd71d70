package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/izihawa/beetle/pkg/rpcclient"
)

func newStatusCmd() *cobra.Command {
	var addr string
	var configFile string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show node version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := clientConfig(addr, configFile)
			if err != nil {
				return err
			}

			client, err := rpcclient.DialStore(cfg.RPCClient)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			version, err := client.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("version: %w", err)
			}

			fmt.Printf("beetle-store %s at %s\n", version, cfg.RPCClient.StoreAddr)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "store rpc address")
	f.StringVar(&configFile, "config", "", "config file path")

	return cmd
}
