// Pcangw-cfg configures PCAN CAN-to-IP gateways from the command line.
//
// It drives the gateway's web administration interface the same way a
// browser does: log in, switch to expert mode, then submit the route and
// bit rate forms. Routes, channels and bit rates can be set one at a time or
// applied from channel plans saved in the local configuration file.
//
// Usage:
//
//	pcangw-cfg [command] [flags]
//
// See 'pcangw-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/pcangw/internal/logging"
	"github.com/muurk/pcangw/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pcangw-cfg",
	Short: "PCAN Gateway Configuration Utility",
	Long: `A command line utility for configuring PCAN CAN-to-IP gateways.

Creates CAN to IP and IP to CAN routes, sets channel bit rates and clears
the route table through the gateway's web interface. Gateways can be found
with mDNS, addressed directly with --device, or saved by name with
'pcangw-cfg gateway add'.

Passwords are never stored. Pass --password, --ask-password or set
PCANGW_PASSWORD; the factory default admin/admin is used otherwise.`,
	Version: version.Version,
	Example: `  # Find gateways on the local network
  pcangw-cfg scan

  # Route CAN channel 1 to 10.0.0.5:5000 and back, at 500 kbit/s
  pcangw-cfg create-channel 1 10.0.0.5 5000 500 --device 192.168.1.10

  # Clear every route on a saved gateway
  pcangw-cfg remove-routes --gateway bench`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless --log-level or PCANGW_LOG_LEVEL is set
		if err := logging.Initialize(logLevel); err != nil {
			return err
		}
		logging.LogCommand(cmd.CommandPath(), deviceAddr, args)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pcangw-cfg %s\n", version.Full())
	},
}
