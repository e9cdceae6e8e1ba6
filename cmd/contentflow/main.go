package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version      = "dev"
	settingsPath string
	brokerURL    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contentflow",
		Short: "Listen for content item and collection changes and invalidate caches",
		Long: `contentflow subscribes to the updated_content topic exchange and invalidates
cached content items and collections as update and delete notifications arrive.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "settings file (default $CONTENTFLOW_SETTINGS or contentflow.toml)")
	rootCmd.PersistentFlags().StringVar(&brokerURL, "url", "", "broker address (default $P2P_AMQP_URL or [broker] url)")

	rootCmd.AddCommand(
		newListenCmd(),
		newPublishCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
