package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/pcangw/internal/config"
	"github.com/muurk/pcangw/internal/ui"
)

var (
	gatewayDescription string
	gatewayUsername    string
)

// gatewayCmd groups the saved-gateway commands
var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Manage saved gateways",
	Long: `Manage the gateways saved in the configuration file.

A saved gateway has a name, an address, an optional username and the
channel plans stored with 'pcangw-cfg create-channel --save'. Passwords
are never saved.`,
}

var gatewayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved gateways",
	Args:  cobra.NoArgs,
	RunE:  runGatewayList,
}

var gatewayAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Save a gateway under a name",
	Example: `  pcangw-cfg gateway add bench 192.168.1.10 --description "Test bench"
  pcangw-cfg gateway add rack-2 10.1.0.7:8080 --user operator`,
	Args: cobra.ExactArgs(2),
	RunE: runGatewayAdd,
}

var gatewayRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget a saved gateway",
	Args:  cobra.ExactArgs(1),
	RunE:  runGatewayRemove,
}

var gatewayRemoveChannelCmd = &cobra.Command{
	Use:   "remove-channel <name> <channel>",
	Short: "Drop a saved channel plan",
	Long: `Drop a channel plan from a saved gateway. The gateway itself is not
changed; run 'pcangw-cfg apply --clean' to bring it in line.`,
	Args: cobra.ExactArgs(2),
	RunE: runGatewayRemoveChannel,
}

func init() {
	gatewayAddCmd.Flags().StringVar(&gatewayDescription, "description", "", "Free text description")
	gatewayAddCmd.Flags().StringVar(&gatewayUsername, "user", "", "Username to log in with")

	gatewayCmd.AddCommand(gatewayListCmd)
	gatewayCmd.AddCommand(gatewayAddCmd)
	gatewayCmd.AddCommand(gatewayRemoveCmd)
	gatewayCmd.AddCommand(gatewayRemoveChannelCmd)
	rootCmd.AddCommand(gatewayCmd)
}

func runGatewayList(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), registry.Gateways)
	}

	names := registry.Names()
	if len(names) == 0 {
		fmt.Println("No saved gateways. Use 'pcangw-cfg gateway add <name> <address>'.")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		gw := registry.Gateways[name]
		rows = append(rows, []string{name, gw.Address, gw.Username, describeChannels(gw.Channels), lastSeen(gw.LastSeen), gw.Description})
	}

	var b strings.Builder
	p := ui.NewPrinter(&b)
	p.PrintTable([]string{"NAME", "ADDRESS", "USER", "CHANNELS", "LAST SEEN", "DESCRIPTION"}, rows)
	return render(b.String())
}

func runGatewayAdd(cmd *cobra.Command, args []string) error {
	name, address := args[0], args[1]

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	gw := registry.EnsureGateway(name)
	gw.Address = address
	if cmd.Flags().Changed("description") {
		gw.Description = gatewayDescription
	}
	if cmd.Flags().Changed("user") {
		gw.Username = gatewayUsername
	}

	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save gateway: %w", err)
	}

	ui.PrintSuccess("Gateway saved", []ui.Param{
		{Key: "Name", Value: name},
		{Key: "Address", Value: address},
	})
	return nil
}

func runGatewayRemove(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	if !registry.RemoveGateway(args[0]) {
		return fmt.Errorf("no saved gateway named %q", args[0])
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Removed gateway %q\n", args[0])
	return nil
}

func runGatewayRemoveChannel(cmd *cobra.Command, args []string) error {
	channel, err := parseInt(args[1], "channel")
	if err != nil {
		return err
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	if !registry.RemoveChannel(args[0], channel) {
		return fmt.Errorf("gateway %q has no saved plan for channel %d", args[0], channel)
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Removed channel %d from gateway %q\n", channel, args[0])
	return nil
}

func describeChannels(plans []config.ChannelPlan) string {
	if len(plans) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(plans))
	for _, plan := range plans {
		parts = append(parts, strconv.Itoa(plan.Channel)+"@"+strconv.FormatFloat(plan.BitrateKbits, 'f', -1, 64)+"k")
	}
	return strings.Join(parts, " ")
}

func lastSeen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
