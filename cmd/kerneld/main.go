// Command kerneld is the reference CLI and HTTP front-end for the AMP
// kernel: it wires VFS, ADODB, Economics and the Kernel dispatcher into one
// process, exposes a serve command for metrics/health, and gives operators
// cobra subcommands for registry publishing, channel assignment, and
// one-shot packet dispatch.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{Use: "kerneld", Short: "Andromeda Message Protocol kernel daemon"}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(keysCmd())
	rootCmd.AddCommand(channelsCmd())
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(sendCmd())

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("kerneld command failed")
		os.Exit(1)
	}
}
