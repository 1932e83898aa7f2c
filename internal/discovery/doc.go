// Package discovery provides mDNS-based discovery of PCAN gateways.
//
// The gateway's web server advertises itself as an "_http._tcp" service.
// Every HTTP service on the segment answers that browse, so results are
// filtered by hostname: the factory hostname is "PCAN-Gateway" with an
// optional suffix, which becomes Device.Name.
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s\n", device.Hostname, device.Address())
//	}
//
// Device.Address is the form gateway.Client expects.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Gateways must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
