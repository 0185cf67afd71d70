package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "beetle-store",
		Short: "Beetle content-addressed store node",
		Long: `Beetle store - the content database node of a beetle deployment.

Server commands:
  beetle-store start         Run the store node

Client commands:
  beetle-store put <file>    Store a blob
  beetle-store get <cid>     Retrieve a blob
  beetle-store status        Show node version`,
	}

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd.ExecuteContext(context.Background())
}
