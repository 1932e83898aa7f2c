package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/pcangw/internal/config"
	"github.com/muurk/pcangw/internal/discovery"
	"github.com/muurk/pcangw/internal/gateway"
	"github.com/muurk/pcangw/internal/logging"
	"github.com/muurk/pcangw/internal/ui"
)

// PasswordEnvVar supplies the gateway password without a flag
const PasswordEnvVar = "PCANGW_PASSWORD"

// Common flags
var (
	deviceAddr   string
	gatewayName  string
	username     string
	password     string
	askPassword  bool
	timeoutSecs  int
	outputFormat string
	logLevel     string
	verbose      bool
)

// Command-specific flags
var (
	assumeYes   bool
	saveChannel bool
	cleanFirst  bool
	scanTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Gateway address, host or host:port (skips discovery)")
	rootCmd.PersistentFlags().StringVarP(&gatewayName, "gateway", "g", "", "Name of a saved gateway")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "Web interface username (default from config, then admin)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "Web interface password (default admin, or $"+PasswordEnvVar+")")
	rootCmd.PersistentFlags().BoolVar(&askPassword, "ask-password", false, "Prompt for the password")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "HTTP request timeout in seconds (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show every HTTP request sent")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(addSendRouteCmd)
	rootCmd.AddCommand(addReceiveRouteCmd)
	rootCmd.AddCommand(removeRoutesCmd)
	rootCmd.AddCommand(setBitrateCmd)
	rootCmd.AddCommand(createChannelCmd)
	rootCmd.AddCommand(applyCmd)
}

// scanCmd discovers gateways on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for PCAN gateways on the network",
	Long: `Scan for PCAN gateways using mDNS/DNS-SD discovery.

Gateways are recognised by their PCAN-Gateway hostname. A gateway that was
renamed, or sits on another subnet, will not show up; address it with
--device instead.`,
	Example: `  # Scan for 5 seconds (default)
  pcangw-cfg scan

  # Longer scan for busy networks
  pcangw-cfg scan --scan-timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan timeout in seconds (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()
	timeout := time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	if outputFormat != "json" {
		ui.PrintPleaseWait(os.Stdout, "Scanning for PCAN gateways", timeout.String())
	}

	devices, err := discovery.ScanForDevices(timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), devices)
	}

	if len(devices) == 0 {
		ui.PrintWarning("No gateways found", []ui.Param{{Key: "Waited", Value: timeout.String()}})
		fmt.Println()
		fmt.Println("Troubleshooting:")
		fmt.Println("  - Ensure the gateway is powered on and connected")
		fmt.Println("  - Check that your computer is on the gateway's subnet")
		fmt.Println("  - Try increasing --scan-timeout")
		fmt.Println("  - Use --device to specify the address if discovery fails")
		return nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		name := d.Name
		if saved, ok := registry.FindByAddress(d.Address()); ok {
			name = saved
		}
		rows = append(rows, []string{name, d.Hostname, d.Address()})
	}

	var b strings.Builder
	p := ui.NewPrinter(&b)
	p.PrintHeader("Gateway Scan", cmd.CommandPath(), []ui.Param{
		{Key: "Found", Value: strconv.Itoa(len(devices))},
		{Key: "Waited", Value: timeout.String()},
	})
	p.PrintTable([]string{"NAME", "HOSTNAME", "ADDRESS"}, rows)
	p.Newline()
	p.Println("  Use 'pcangw-cfg gateway add <name> <address>' to save a gateway")

	return render(b.String())
}

// addSendRouteCmd creates a CAN to IP route
var addSendRouteCmd = &cobra.Command{
	Use:   "add-send-route <route> <channel> <target> <port>",
	Short: "Create a CAN to IP route",
	Long: `Create a route that forwards frames from a CAN channel to a UDP target.

The route number is the gateway's route slot (0-8). The channel is 1-based;
the gateway's 0-based index is derived from it. The target must be a dotted
IPv4 address.`,
	Example: `  # Route slot 1 forwards CAN channel 1 to 10.0.0.5:5000
  pcangw-cfg add-send-route 1 1 10.0.0.5 5000 --device 192.168.1.10`,
	Args: cobra.ExactArgs(4),
	RunE: runAddSendRoute,
}

func runAddSendRoute(cmd *cobra.Command, args []string) error {
	route, err := parseInt(args[0], "route")
	if err != nil {
		return err
	}
	channel, err := parseInt(args[1], "channel")
	if err != nil {
		return err
	}
	target := args[2]
	port, err := parsePort(args[3])
	if err != nil {
		return err
	}

	octets, err := gateway.ParseTargetAddress(target)
	if err != nil {
		return err
	}

	return runOperation(cmd, operationSpec{
		Title: "Add Send Route",
		Params: []ui.Param{
			{Key: "Route", Value: strconv.Itoa(route)},
			{Key: "Channel", Value: strconv.Itoa(channel)},
			{Key: "Target", Value: fmt.Sprintf("%s:%d", target, port)},
		},
		Steps: []string{gateway.NewSendRoute(route, channel, octets, port).Description()},
	}, func(client *gateway.Client, device string) (*gateway.Result, error) {
		return client.CreateSendRoute(device, target, route, channel, port)
	})
}

// addReceiveRouteCmd creates an IP to CAN route
var addReceiveRouteCmd = &cobra.Command{
	Use:   "add-receive-route <route> <channel> <port>",
	Short: "Create an IP to CAN route",
	Long: `Create a route that writes UDP datagrams received on a local port to a
CAN channel. The gateway listens on all of its addresses.`,
	Example: `  # Route slot 2 writes datagrams from port 5000 to CAN channel 1
  pcangw-cfg add-receive-route 2 1 5000 --device 192.168.1.10`,
	Args: cobra.ExactArgs(3),
	RunE: runAddReceiveRoute,
}

func runAddReceiveRoute(cmd *cobra.Command, args []string) error {
	route, err := parseInt(args[0], "route")
	if err != nil {
		return err
	}
	channel, err := parseInt(args[1], "channel")
	if err != nil {
		return err
	}
	port, err := parsePort(args[2])
	if err != nil {
		return err
	}

	return runOperation(cmd, operationSpec{
		Title: "Add Receive Route",
		Params: []ui.Param{
			{Key: "Route", Value: strconv.Itoa(route)},
			{Key: "Channel", Value: strconv.Itoa(channel)},
			{Key: "Port", Value: strconv.Itoa(int(port))},
		},
		Steps: []string{gateway.NewReceiveRoute(route, channel, port).Description()},
	}, func(client *gateway.Client, device string) (*gateway.Result, error) {
		return client.CreateReceiveRoute(device, route, channel, port)
	})
}

// removeRoutesCmd clears the route table
var removeRoutesCmd = &cobra.Command{
	Use:   "remove-routes",
	Short: "Delete every route on the gateway",
	Long: fmt.Sprintf(`Delete route slots %d down to 0, whether or not they are in use.

A failed delete does not stop the sweep; every failure is reported at the
end. You are asked to confirm unless --yes is given.`, gateway.MaxRouteIndex),
	Example: `  pcangw-cfg remove-routes --device 192.168.1.10
  pcangw-cfg remove-routes --gateway bench --yes`,
	Args: cobra.NoArgs,
	RunE: runRemoveRoutes,
}

func init() {
	removeRoutesCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runRemoveRoutes(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget()
	if err != nil {
		return err
	}

	if !assumeYes && !ui.RemoveRoutesConfirmation(os.Stdin, os.Stdout, target.Address) {
		return nil
	}

	return runOperationOn(cmd, target, operationSpec{
		Title: "Remove All Routes",
		Steps: deleteStepNames(),
	}, func(client *gateway.Client, device string) (*gateway.Result, error) {
		return client.RemoveAllRoutes(device)
	})
}

// setBitrateCmd changes a channel's bit rate
var setBitrateCmd = &cobra.Command{
	Use:   "set-bitrate <channel> <kbits>",
	Short: "Set the bit rate of a CAN channel",
	Long: `Set the bus bit rate of a 1-based CAN channel in kbit/s.

Fractions are dropped before the value is sent: 83.333 becomes 83000 bit/s.`,
	Example: `  pcangw-cfg set-bitrate 1 500 --device 192.168.1.10
  pcangw-cfg set-bitrate 2 250 --gateway bench`,
	Args: cobra.ExactArgs(2),
	RunE: runSetBitrate,
}

func runSetBitrate(cmd *cobra.Command, args []string) error {
	channel, err := parseInt(args[0], "channel")
	if err != nil {
		return err
	}
	kbits, err := parseKbits(args[1])
	if err != nil {
		return err
	}

	warnUncommonBitrate(kbits)

	change := gateway.BitrateChange{Channel: channel, Kbits: kbits}
	return runOperation(cmd, operationSpec{
		Title: "Set Bit Rate",
		Params: []ui.Param{
			{Key: "Channel", Value: strconv.Itoa(channel)},
			{Key: "Bit rate", Value: fmt.Sprintf("%d bit/s", change.Hz())},
		},
		Steps: []string{change.Description()},
	}, func(client *gateway.Client, device string) (*gateway.Result, error) {
		return client.SetChannelBaudRate(device, channel, kbits)
	})
}

// createChannelCmd sets up both routes and the bit rate of a channel
var createChannelCmd = &cobra.Command{
	Use:   "create-channel <channel> <target> <port> <kbits>",
	Short: "Create both routes of a CAN channel and set its bit rate",
	Long: `Set up a CAN channel in one session:

  1. IP to CAN route on slot channel*2, listening on <port>
  2. CAN to IP route on slot channel*2-1, sending to <target>:<port>
  3. Channel bit rate

A rejected step does not stop the next one, and accepted steps are not
rolled back. With --save the channel plan is stored for 'pcangw-cfg apply'.`,
	Example: `  pcangw-cfg create-channel 1 10.0.0.5 5000 500 --device 192.168.1.10
  pcangw-cfg create-channel 2 10.0.0.5 5001 250 --gateway bench --save`,
	Args: cobra.ExactArgs(4),
	RunE: runCreateChannel,
}

func init() {
	createChannelCmd.Flags().BoolVar(&saveChannel, "save", false, "Save the channel plan to the named gateway")
}

func runCreateChannel(cmd *cobra.Command, args []string) error {
	channel, err := parseInt(args[0], "channel")
	if err != nil {
		return err
	}
	port, err := parsePort(args[2])
	if err != nil {
		return err
	}
	kbits, err := parseKbits(args[3])
	if err != nil {
		return err
	}

	plan := config.ChannelPlan{Channel: channel, Target: args[1], Port: port, BitrateKbits: kbits}
	if err := config.ValidateChannelPlan(plan); err != nil {
		return err
	}
	warnUncommonBitrate(kbits)

	target, err := resolveTarget()
	if err != nil {
		return err
	}
	if saveChannel && target.Name == "" {
		return fmt.Errorf("--save needs a named gateway: use --gateway or 'pcangw-cfg gateway add' first")
	}

	err = runOperationOn(cmd, target, channelSpec(plan), func(client *gateway.Client, device string) (*gateway.Result, error) {
		return client.CreateCanChannel(plan.Channel, device, plan.Target, plan.Port, plan.BitrateKbits)
	})
	if err != nil || !saveChannel {
		return err
	}

	registry := loadRegistry()
	if err := registry.SetChannel(target.Name, plan); err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save channel plan: %w", err)
	}
	fmt.Printf("\n  Saved channel %d plan to gateway %q\n", plan.Channel, target.Name)
	return nil
}

// applyCmd applies every saved channel plan
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the saved channel plans of a gateway",
	Long: `Run create-channel for every channel plan saved on a gateway.

With --clean the route table is cleared first. A channel whose requests are
rejected does not stop the others; a gateway that stops responding does.`,
	Example: `  pcangw-cfg apply --gateway bench
  pcangw-cfg apply --gateway bench --clean --yes`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&cleanFirst, "clean", false, "Remove all routes before applying")
	applyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt for --clean")
}

func runApply(cmd *cobra.Command, args []string) error {
	if gatewayName == "" {
		return fmt.Errorf("apply needs --gateway")
	}

	target, err := resolveTarget()
	if err != nil {
		return err
	}

	gw := loadRegistry().GetGateway(target.Name)
	if gw == nil || len(gw.Channels) == 0 {
		return fmt.Errorf("gateway %q has no saved channels; use 'pcangw-cfg create-channel --save'", target.Name)
	}

	if cleanFirst {
		if !assumeYes && !ui.RemoveRoutesConfirmation(os.Stdin, os.Stdout, target.Address) {
			return nil
		}
		err := runOperationOn(cmd, target, operationSpec{Title: "Remove All Routes", Steps: deleteStepNames()},
			func(client *gateway.Client, device string) (*gateway.Result, error) {
				return client.RemoveAllRoutes(device)
			})
		if gateway.IsNetworkError(err) {
			return err
		}
		if err != nil {
			logging.Warn("Route sweep incomplete, applying channels anyway", zap.Error(err))
		}
	}

	var errs error
	for _, plan := range gw.Channels {
		err := runOperationOn(cmd, target, channelSpec(plan), func(client *gateway.Client, device string) (*gateway.Result, error) {
			return client.CreateCanChannel(plan.Channel, device, plan.Target, plan.Port, plan.BitrateKbits)
		})
		if gateway.IsNetworkError(err) {
			return multierr.Append(errs, err)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("channel %d: %w", plan.Channel, err))
		}
	}
	return errs
}

// --- Shared plumbing ---

// operationSpec describes how an operation is presented
type operationSpec struct {
	Title  string
	Params []ui.Param
	Steps  []string // Configuration steps, after the login handshake
}

// gatewayOperation performs one client call against device
type gatewayOperation func(client *gateway.Client, device string) (*gateway.Result, error)

// gatewayTarget is the resolved gateway an operation is sent to
type gatewayTarget struct {
	Address string
	Name    string // Registry name, empty for unsaved gateways
}

// runOperation resolves the target gateway and runs op against it
func runOperation(cmd *cobra.Command, spec operationSpec, op gatewayOperation) error {
	target, err := resolveTarget()
	if err != nil {
		return err
	}
	return runOperationOn(cmd, target, spec, op)
}

// runOperationOn runs op with output in the selected format and records a
// successful contact in the registry
func runOperationOn(cmd *cobra.Command, target gatewayTarget, spec operationSpec, op gatewayOperation) error {
	client, err := newClient(target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	var result *gateway.Result
	switch outputFormat {
	case "compact", "json":
		result, err = op(client, target.Address)
		if result != nil {
			if outputFormat == "json" {
				if jsonErr := printJSON(out, result); jsonErr != nil {
					return jsonErr
				}
			} else {
				fmt.Fprint(out, result.FormatCompact())
			}
		}
		if err == nil && result != nil && !result.Success() {
			err = result.Err()
		}

	case "detailed":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			// Plain text when piped or redirected
			result, err = op(client, target.Address)
			if result != nil {
				fmt.Fprint(out, result.FormatDetailed())
			}
			if err == nil && result != nil && !result.Success() {
				err = result.Err()
			}
			break
		}

		params := append([]ui.Param{{Key: "Gateway", Value: describeTarget(target)}}, spec.Params...)
		params = append(params, ui.Param{Key: "User", Value: client.Credentials().Username})

		runner := ui.NewOperationRunner(ui.OperationRunnerConfig{
			Title:     spec.Title,
			Command:   cmd.CommandPath(),
			Params:    params,
			StepNames: append([]string{"Log in", "Switch to expert mode"}, spec.Steps...),
			Verbose:   verbose,
			Output:    out,
		})
		client.OnStep = runner.StepObserver()
		result, err = runner.Run(func() (*gateway.Result, error) {
			return op(client, target.Address)
		})

	default:
		return fmt.Errorf("unknown output format %q (use detailed, compact or json)", outputFormat)
	}

	if result != nil && result.Success() && target.Name != "" {
		touchGateway(target)
	}
	return err
}

// resolveTarget picks the gateway from --device, --gateway or discovery
func resolveTarget() (gatewayTarget, error) {
	registry := loadRegistry()

	if gatewayName != "" {
		gw := registry.GetGateway(gatewayName)
		switch {
		case deviceAddr != "":
			return gatewayTarget{Address: deviceAddr, Name: gatewayName}, nil
		case gw == nil:
			return gatewayTarget{}, fmt.Errorf("no saved gateway named %q; see 'pcangw-cfg gateway list'", gatewayName)
		case gw.Address == "":
			return gatewayTarget{}, fmt.Errorf("saved gateway %q has no address", gatewayName)
		}
		return gatewayTarget{Address: gw.Address, Name: gatewayName}, nil
	}

	if deviceAddr != "" {
		name, _ := registry.FindByAddress(deviceAddr)
		return gatewayTarget{Address: deviceAddr, Name: name}, nil
	}

	fmt.Fprintln(os.Stderr, "No gateway specified, attempting auto-discovery...")
	devices, err := discovery.ScanForDevices(time.Duration(registry.Preferences.DiscoverTimeout) * time.Second)
	if err != nil {
		return gatewayTarget{}, fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		return gatewayTarget{}, fmt.Errorf("no gateways found. Use --device to specify the address manually")
	}

	if len(devices) > 1 {
		fmt.Fprintf(os.Stderr, "Found %d gateways:\n", len(devices))
		for i, d := range devices {
			fmt.Fprintf(os.Stderr, "%d. %s\n", i+1, d)
		}
		return gatewayTarget{}, fmt.Errorf("multiple gateways found. Use --device or --gateway to pick one")
	}

	device := devices[0]
	fmt.Fprintf(os.Stderr, "Found %s\n\n", device)
	name, _ := registry.FindByAddress(device.Address())
	return gatewayTarget{Address: device.Address(), Name: name}, nil
}

// newClient builds a gateway client from flags, environment and the registry
func newClient(target gatewayTarget) (*gateway.Client, error) {
	registry := loadRegistry()

	user := username
	if user == "" && target.Name != "" {
		if gw := registry.GetGateway(target.Name); gw != nil {
			user = gw.Username
		}
	}
	if user == "" {
		user = registry.Preferences.DefaultUsername
	}
	if user == "" {
		user = gateway.DefaultUsername
	}

	pass, err := resolvePassword(user, target.Address)
	if err != nil {
		return nil, err
	}

	client := gateway.NewClientWithCredentials(user, pass)
	client.Logger = logging.Named("gateway")

	timeout := time.Duration(registry.Preferences.TimeoutSeconds) * time.Second
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs) * time.Second
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client, nil
}

// resolvePassword applies --password, --ask-password, PCANGW_PASSWORD and
// the factory default, in that order
func resolvePassword(user, address string) (string, error) {
	if rootCmd.PersistentFlags().Changed("password") {
		return password, nil
	}

	if askPassword {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("--ask-password needs an interactive terminal; use %s instead", PasswordEnvVar)
		}
		fmt.Printf("Password for %s@%s: ", user, address)
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	if env, ok := os.LookupEnv(PasswordEnvVar); ok {
		return env, nil
	}
	return gateway.DefaultPassword, nil
}

// touchGateway stamps a saved gateway after a successful operation
func touchGateway(target gatewayTarget) {
	registry := loadRegistry()
	registry.UpdateGatewayLastSeen(target.Name, target.Address)
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to update gateway last seen", zap.String("gateway", target.Name), zap.Error(err))
	}
}

// loadRegistry returns the user registry, or a default one if it cannot be read
func loadRegistry() *config.Registry {
	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Failed to load config, using defaults", zap.Error(err))
		return config.NewRegistry()
	}
	return registry
}

func describeTarget(target gatewayTarget) string {
	if target.Name == "" {
		return target.Address
	}
	return fmt.Sprintf("%s (%s)", target.Address, target.Name)
}

func channelSpec(plan config.ChannelPlan) operationSpec {
	receiveIndex, sendIndex := gateway.RouteNumbersForChannel(plan.Channel)
	octets, _ := gateway.ParseTargetAddress(plan.Target)
	change := gateway.BitrateChange{Channel: plan.Channel, Kbits: plan.BitrateKbits}

	return operationSpec{
		Title: "Create CAN Channel",
		Params: []ui.Param{
			{Key: "Channel", Value: strconv.Itoa(plan.Channel)},
			{Key: "Target", Value: fmt.Sprintf("%s:%d", plan.Target, plan.Port)},
			{Key: "Bit rate", Value: fmt.Sprintf("%d bit/s", change.Hz())},
		},
		Steps: []string{
			gateway.NewReceiveRoute(receiveIndex, plan.Channel, plan.Port).Description(),
			gateway.NewSendRoute(sendIndex, plan.Channel, octets, plan.Port).Description(),
			change.Description(),
		},
	}
}

func deleteStepNames() []string {
	names := make([]string, 0, gateway.MaxRouteIndex+1)
	for index := gateway.MaxRouteIndex; index >= 0; index-- {
		names = append(names, "Delete route "+strconv.Itoa(index))
	}
	return names
}

func warnUncommonBitrate(kbits float64) {
	if config.IsCommonBitrate(kbits) {
		return
	}
	if outputFormat == "detailed" {
		ui.PrintWarning("Uncommon bit rate", []ui.Param{
			{Key: "Requested", Value: fmt.Sprintf("%d bit/s", gateway.BitrateHz(kbits))},
			{Key: "Note", Value: "not offered by the gateway's web form; sending anyway"},
		})
		fmt.Println()
	}
	logging.Warn("Uncommon bit rate", zap.Float64("kbits", kbits))
}

func parseInt(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", what, arg, err)
	}
	return n, nil
}

func parsePort(arg string) (uint16, error) {
	n, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port value %q: must be 0-65535", arg)
	}
	return uint16(n), nil
}

func parseKbits(arg string) (float64, error) {
	kbits, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bit rate %q: %w", arg, err)
	}
	return kbits, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// render prints content through Bubble Tea on a terminal, plainly otherwise
func render(content string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(content)
		return nil
	}
	return ui.RenderOnce(content)
}
