package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/izihawa/beetle/internal/store"
	"github.com/izihawa/beetle/pkg/rpcclient"
)

func newPutCmd() *cobra.Command {
	var addr string
	var configFile string

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a blob",
		Long: `Store a file as a raw blob and print its CID.

Examples:
  beetle-store put photo.jpg
  beetle-store put photo.jpg --addr grpc://127.0.0.1:4402`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			id := store.RawCid(data)

			cfg, err := clientConfig(addr, configFile)
			if err != nil {
				return err
			}

			client, err := rpcclient.DialStore(cfg.RPCClient)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Put(cmd.Context(), id, data, nil); err != nil {
				return fmt.Errorf("put: %w", err)
			}

			fmt.Println(id.String())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "store rpc address")
	f.StringVar(&configFile, "config", "", "config file path")

	return cmd
}
