package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "splitsmart",
		Short:   "Splitsmart - shared expense ledger server",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file to load before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
