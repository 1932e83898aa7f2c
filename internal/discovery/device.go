package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device represents a PCAN gateway found on the network
type Device struct {
	// Name is the part of the hostname after the "PCAN-Gateway" prefix
	// (e.g., "Bench" for "PCAN-Gateway-Bench.local"); empty for the bare prefix
	Name string

	// Hostname is the mDNS hostname (e.g., "PCAN-Gateway-Bench.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 when no IPv4 was advertised
	IP string

	// Port is the web interface port (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("PCAN Gateway %s (%s) at %s", name, d.Hostname, d.Address())
}

// Address returns the address to hand to gateway.Client: the bare IP for
// port 80, host:port otherwise
func (d *Device) Address() string {
	if d.Port == 0 || d.Port == DefaultPort {
		if net.ParseIP(d.IP).To4() == nil && net.ParseIP(d.IP) != nil {
			return "[" + d.IP + "]"
		}
		return d.IP
	}
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
