package main

import (
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"

	"github.com/izihawa/beetle/pkg/rpcclient"
)

func newGetCmd() *cobra.Command {
	var addr string
	var configFile string
	var outputFile string

	cmd := &cobra.Command{
		Use:   "get <cid>",
		Short: "Retrieve a blob",
		Long: `Retrieve a blob by its CID.

Examples:
  beetle-store get bafkr4i... > blob.bin
  beetle-store get bafkr4i... -f blob.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cid.Decode(args[0])
			if err != nil {
				return fmt.Errorf("invalid cid: %w", err)
			}

			cfg, err := clientConfig(addr, configFile)
			if err != nil {
				return err
			}

			client, err := rpcclient.DialStore(cfg.RPCClient)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			data, found, err := client.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}
			if !found {
				return fmt.Errorf("%s: not found", id)
			}

			if outputFile != "" {
				return os.WriteFile(outputFile, data, 0o600)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "store rpc address")
	f.StringVar(&configFile, "config", "", "config file path")
	f.StringVarP(&outputFile, "output", "f", "", "write blob to file instead of stdout")

	return cmd
}
