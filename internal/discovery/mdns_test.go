package discovery

import (
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name: "named gateway with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "PCAN-Gateway-Bench.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
				Text:     []string{"path=/"},
			},
			wantName: "Bench",
			wantIP:   "192.168.1.10",
			wantPort: 80,
		},
		{
			name: "factory hostname without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "PCAN-Gateway.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantName: "",
			wantIP:   "10.0.0.5",
			wantPort: 80,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "pcan-gateway_lab.local",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.100")},
			},
			wantName: "lab",
			wantIP:   "192.168.1.100",
			wantPort: 8080,
		},
		{
			name: "port defaults to 80",
			entry: &zeroconf.ServiceEntry{
				HostName: "PCAN-Gateway-2.local",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.12")},
			},
			wantName: "2",
			wantIP:   "192.168.1.12",
			wantPort: 80,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "PCAN-Gateway-V6.local",
				Port:     80,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantName: "V6",
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name: "IPv4 preferred over IPv6",
			entry: &zeroconf.ServiceEntry{
				HostName: "PCAN-Gateway-Dual.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.13")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantName: "Dual",
			wantIP:   "192.168.1.13",
			wantPort: 80,
		},
		{
			name: "other HTTP service",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "PCAN-Gateway-Bench.local.",
				Port:     80,
			},
			wantNil: true,
		},
		{
			name:    "empty hostname",
			entry:   &zeroconf.ServiceEntry{AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")}},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}
			if device.Name != tt.wantName {
				t.Errorf("device.Name = %q, want %q", device.Name, tt.wantName)
			}
			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.Hostname != tt.entry.HostName {
				t.Errorf("device.Hostname = %v, want %v", device.Hostname, tt.entry.HostName)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "PCAN-Gateway-Bench.local",
		Port:     80,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
		Text:     []string{"path=/", "model=PCAN-Ethernet Gateway DR", "flag", "url=http://x/?a=b"},
	}

	device := scanner.parseServiceEntry(entry)
	if device == nil {
		t.Fatal("parseServiceEntry() = nil, want device")
	}

	expectedMetadata := map[string]string{
		"path":  "/",
		"model": "PCAN-Ethernet Gateway DR",
		"flag":  "",
		"url":   "http://x/?a=b",
	}

	if len(device.Metadata) != len(expectedMetadata) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expectedMetadata))
	}
	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := device.Metadata[key]; !ok {
			t.Errorf("device.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("device.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestScanner_CustomHostnamePattern(t *testing.T) {
	scanner := NewScanner()
	scanner.HostnamePattern = regexp.MustCompile(`^can-gw-(\w+)\.local\.?$`)

	renamed := &zeroconf.ServiceEntry{
		HostName: "can-gw-truck7.local.",
		AddrIPv4: []net.IP{net.ParseIP("192.168.7.2")},
	}
	device := scanner.parseServiceEntry(renamed)
	if device == nil || device.Name != "truck7" {
		t.Fatalf("parseServiceEntry() = %v, want device named truck7", device)
	}

	factory := &zeroconf.ServiceEntry{
		HostName: "PCAN-Gateway.local.",
		AddrIPv4: []net.IP{net.ParseIP("192.168.7.3")},
	}
	if scanner.parseServiceEntry(factory) != nil {
		t.Error("custom pattern should replace the default, not extend it")
	}

	// A pattern without a group still matches; the name stays empty
	scanner.HostnamePattern = regexp.MustCompile(`^gw\.local\.?$`)
	device = scanner.parseServiceEntry(&zeroconf.ServiceEntry{HostName: "gw.local", AddrIPv4: []net.IP{net.ParseIP("192.168.7.4")}})
	if device == nil || device.Name != "" {
		t.Errorf("parseServiceEntry() = %v, want unnamed device", device)
	}
}

func TestScanner_NilPatternUsesDefault(t *testing.T) {
	scanner := &Scanner{Timeout: time.Second}

	device := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "PCAN-Gateway-Bench.local",
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
	})
	if device == nil || device.Name != "Bench" {
		t.Errorf("parseServiceEntry() = %v, want Bench", device)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if scanner.HostnamePattern != DefaultHostnamePattern {
		t.Error("scanner.HostnamePattern should default to DefaultHostnamePattern")
	}
}

func TestDefaultHostnamePattern(t *testing.T) {
	tests := []struct {
		hostname    string
		shouldMatch bool
		name        string
	}{
		{"PCAN-Gateway.local", true, ""},
		{"PCAN-Gateway.local.", true, ""},
		{"PCAN-Gateway-Bench.local", true, "Bench"},
		{"PCAN-Gateway_Bench.local.", true, "Bench"},
		{"pcan-gateway-lab.local", true, "lab"},
		{"PCAN-Gateway-Rack.2.local", true, "Rack.2"},
		{"PCAN-Gateway-Bench", false, ""},    // missing .local
		{"My-PCAN-Gateway.local", false, ""}, // wrong prefix
		{"PCAN-Router.local", false, ""},     // other product
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			matches := DefaultHostnamePattern.FindStringSubmatch(tt.hostname)

			if !tt.shouldMatch {
				if matches != nil {
					t.Errorf("pattern matched %q, want no match", tt.hostname)
				}
				return
			}
			if matches == nil {
				t.Fatalf("pattern did not match %q", tt.hostname)
			}
			if matches[1] != tt.name {
				t.Errorf("pattern matched %q with name %q, want %q", tt.hostname, matches[1], tt.name)
			}
		})
	}
}
