// Command weavedrop uploads content to a permanent storage network,
// wrapped in a client-side encryption envelope, and prints the capability
// link that lets a recipient decrypt it. It also opens links, manages the
// wallet and drive, and runs the share server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDataDir string
	flagGateway string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "weavedrop",
	Short: "Permanent encrypted uploads with capability links",
	Long: `Weavedrop stores content permanently on a storage network. Content is
encrypted client-side before it leaves the machine; the decryption key is
placed only in the fragment of the share link, so the server and the
network never see it.

Run 'weavedrop help <command>' for details on a specific command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for wallet, drive state, cache, and history")
	rootCmd.PersistentFlags().StringVar(&flagGateway, "gateway", "", "storage gateway base URL")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose log output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
