package gateway

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Fixed endpoints of the gateway's web interface.
const (
	LoginPath       = "/bouncer.php"
	ModePath        = "/processing/device_user.php"
	RouteAddPath    = "/processing/route_add.php"
	RouteDeletePath = "/processing/route_delete.php"
	CanEditPath     = "/processing/can_edit.php"

	// ExpertModeQuery switches the web session into expert mode.
	ExpertModeQuery = "request=mode&mode=expert"
)

const (
	// MaxRoutes is the number of route slots on the gateway
	MaxRoutes = 9

	// MaxRouteIndex is the highest 0-based route slot
	MaxRouteIndex = MaxRoutes - 1

	// ProtocolUDP is the IP protocol number sent with every route
	ProtocolUDP = 17

	// ReceiveTarget is the address used for IP to CAN routes (listen on any local address)
	ReceiveTarget = "0.0.0.0"

	// ActuationBusLabel is the info text for channel 1
	ActuationBusLabel = "Actuation Bus"

	// OEMBusLabel is the info text for every other channel
	OEMBusLabel = "OEM Bus"
)

// Direction is the forwarding direction of a route
type Direction int

const (
	// CanToIP forwards frames from a CAN channel to a UDP endpoint (wire value 0)
	CanToIP Direction = 0
	// IPToCan forwards UDP datagrams onto a CAN channel (wire value 1)
	IPToCan Direction = 1
)

// String returns a short name for the direction
func (d Direction) String() string {
	switch d {
	case CanToIP:
		return "CAN→IP"
	case IPToCan:
		return "IP→CAN"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Route describes a single route_add request. It is built, sent and forgotten.
type Route struct {
	Index     int       // 0-based route slot on the gateway
	Direction Direction // CanToIP or IPToCan
	Channel   int       // 1-based CAN channel
	Target    [4]string // Target address octets (0.0.0.0 for IPToCan)
	Port      uint16    // UDP port
}

// WireChannel returns the 0-based channel index the gateway expects
func (r Route) WireChannel() int {
	return r.Channel - 1
}

// TargetAddress joins the target octets back into dotted form
func (r Route) TargetAddress() string {
	return strings.Join(r.Target[:], ".")
}

// Query returns the route_add query string. Keys are emitted in the order the
// gateway's own form submits them, so url.Values is not used here.
func (r Route) Query() string {
	var b strings.Builder
	b.WriteString("route_index=" + strconv.Itoa(r.Index))
	b.WriteString("&route_direction=" + strconv.Itoa(int(r.Direction)))
	b.WriteString("&return_page=%2Frouting_add_route.php")
	b.WriteString("&route_state=on")
	b.WriteString("&handshake_state=on")
	b.WriteString("&can_chan=can" + strconv.Itoa(r.WireChannel()))
	// Octets are escaped, never validated or trimmed
	for i, octet := range r.Target {
		b.WriteString(fmt.Sprintf("&ip%d=%s", i+1, url.QueryEscape(octet)))
	}
	b.WriteString("&port=" + strconv.Itoa(int(r.Port)))
	b.WriteString("&proto=" + strconv.Itoa(ProtocolUDP))
	b.WriteString("&FPP=1")
	return b.String()
}

// Path returns the request path including the query string
func (r Route) Path() string {
	return RouteAddPath + "?" + r.Query()
}

// Description returns a one-line summary in the gateway's own wording
func (r Route) Description() string {
	if r.Direction == IPToCan {
		return fmt.Sprintf("Route %d: Local IP port %d → CAN channel %d", r.Index, r.Port, r.Channel)
	}
	return fmt.Sprintf("Route %d: CAN channel %d → %s:%d", r.Index, r.Channel, r.TargetAddress(), r.Port)
}

// NewSendRoute builds a CAN to IP route. target must already be split.
func NewSendRoute(index, channel int, target [4]string, port uint16) Route {
	return Route{
		Index:     index,
		Direction: CanToIP,
		Channel:   channel,
		Target:    target,
		Port:      port,
	}
}

// NewReceiveRoute builds an IP to CAN route listening on 0.0.0.0
func NewReceiveRoute(index, channel int, port uint16) Route {
	return Route{
		Index:     index,
		Direction: IPToCan,
		Channel:   channel,
		Target:    [4]string{"0", "0", "0", "0"},
		Port:      port,
	}
}

// ParseTargetAddress splits a dotted address into its four parts.
// Only the part count is checked; octet values are passed through as given.
func ParseTargetAddress(address string) ([4]string, error) {
	var octets [4]string
	parts := strings.Split(address, ".")
	if len(parts) != 4 {
		return octets, NewMalformedAddressError(address, len(parts))
	}
	copy(octets[:], parts)
	return octets, nil
}

// RouteNumbersForChannel returns the route slots used by CreateCanChannel:
// the receive leg on channel*2 and the send leg on channel*2-1.
func RouteNumbersForChannel(channel int) (receive, send int) {
	receive = channel * 2
	return receive, receive - 1
}

// DeleteRoutePath returns the route_delete path for a slot
func DeleteRoutePath(index int) string {
	return RouteDeletePath + "?delete=" + strconv.Itoa(index)
}

// BitrateHz converts a kbit/s figure to the bit rate sent to the gateway.
// The kbit/s value is truncated to an integer before multiplying, so 250.9
// becomes 250000.
func BitrateHz(kbits float64) int {
	return int(kbits) * 1000
}

// ChannelLabel returns the info text written with a bit rate change
func ChannelLabel(channel int) string {
	if channel == 1 {
		return ActuationBusLabel
	}
	return OEMBusLabel
}

// BitrateChange describes a single can_edit request
type BitrateChange struct {
	Channel int     // 1-based CAN channel, sent unadjusted as index
	Kbits   float64 // Requested bit rate in kbit/s
}

// Hz returns the bit rate sent on the wire
func (b BitrateChange) Hz() int {
	return BitrateHz(b.Kbits)
}

// Label returns the info text for the channel
func (b BitrateChange) Label() string {
	return ChannelLabel(b.Channel)
}

// Query returns the can_edit query string
func (b BitrateChange) Query() string {
	return "index=" + strconv.Itoa(b.Channel) +
		"&set_can_status=2" +
		"&bitrate=" + strconv.Itoa(b.Hz()) +
		"&info=" + url.QueryEscape(b.Label())
}

// Path returns the request path including the query string
func (b BitrateChange) Path() string {
	return CanEditPath + "?" + b.Query()
}

// Description returns a one-line summary of the change
func (b BitrateChange) Description() string {
	return fmt.Sprintf("Channel %d bit rate %s kbit/s (%s)", b.Channel, strconv.FormatFloat(b.Kbits, 'f', -1, 64), b.Label())
}

// LoginQuery returns the bouncer.php query. The gateway form posts the
// username in the PW slot and the password in the UN slot; that order is kept.
func LoginQuery(creds Credentials) string {
	return "PW=" + url.QueryEscape(creds.Username) + "&UN=" + url.QueryEscape(creds.Password)
}
