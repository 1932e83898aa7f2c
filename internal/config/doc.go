// Package config provides user configuration management for pcangw.
//
// This package manages a YAML-based configuration file that stores named PCAN
// gateways, the CAN channel plans to apply to them, and application
// preferences. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/pcangw/config.yaml or $HOME/.config/pcangw/config.yaml
//   - macOS: $HOME/.config/pcangw/config.yaml
//   - Windows: %LOCALAPPDATA%\pcangw\config.yaml
//
// PCANGW_CONFIG overrides the location.
//
// # Security
//
// IMPORTANT: This package NEVER stores gateway passwords. Only the username is
// kept; the password is supplied on every run.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gw := registry.EnsureGateway("bench")
//	gw.Address = "192.168.1.10"
//	if err := registry.SetChannel("bench", config.ChannelPlan{
//	    Channel: 1, Target: "10.0.0.5", Port: 5000, BitrateKbits: 500,
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
