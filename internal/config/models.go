package config

import (
	"fmt"
	"net"
	"sort"
	"time"

	"github.com/muurk/pcangw/internal/gateway"
)

// Registry represents the entire user configuration file.
// It stores named gateways, their channel plans, and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Gateways    map[string]*Gateway `yaml:"gateways,omitempty"` // Keyed by user-chosen name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Gateway is a saved PCAN gateway and the channels planned for it.
type Gateway struct {
	Address     string        `yaml:"address"`               // Web interface address (host or host:port)
	Username    string        `yaml:"username,omitempty"`    // Login username; the password is never stored
	Description string        `yaml:"description,omitempty"` // Free text (e.g. "Test bench, rack 2")
	LastSeen    time.Time     `yaml:"last_seen,omitempty"`   // Last successful operation or discovery
	Channels    []ChannelPlan `yaml:"channels,omitempty"`    // Kept sorted by channel
}

// ChannelPlan is the desired setup of one CAN channel, as applied by
// gateway.Client.CreateCanChannel.
type ChannelPlan struct {
	Channel      int     `yaml:"channel"`       // 1-based CAN channel
	Target       string  `yaml:"target"`        // Dotted IPv4 address CAN frames are sent to
	Port         uint16  `yaml:"port"`          // UDP port for both directions
	BitrateKbits float64 `yaml:"bitrate_kbits"` // Bus bit rate in kbit/s
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	TimeoutSeconds  int    `yaml:"timeout_seconds"`            // HTTP request timeout
	DiscoverTimeout int    `yaml:"discover_timeout"`           // mDNS discovery timeout in seconds
	DefaultUsername string `yaml:"default_username,omitempty"` // Used when neither flag nor gateway entry sets one
	// Passwords are NEVER stored in the config file
}

func defaultPreferences() *Preferences {
	return &Preferences{
		TimeoutSeconds:  int(gateway.DefaultTimeout / time.Second),
		DiscoverTimeout: 5,
		DefaultUsername: gateway.DefaultUsername,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Gateways:    make(map[string]*Gateway),
		Preferences: defaultPreferences(),
	}
}

// GetGateway retrieves a gateway by name.
// Returns nil if the gateway doesn't exist in the registry.
func (r *Registry) GetGateway(name string) *Gateway {
	return r.Gateways[name]
}

// EnsureGateway returns the named gateway, creating an empty entry if needed.
func (r *Registry) EnsureGateway(name string) *Gateway {
	if r.Gateways == nil {
		r.Gateways = make(map[string]*Gateway)
	}

	if gw, exists := r.Gateways[name]; exists {
		return gw
	}

	gw := &Gateway{}
	r.Gateways[name] = gw
	return gw
}

// RemoveGateway deletes a gateway. Reports whether it existed.
func (r *Registry) RemoveGateway(name string) bool {
	if _, exists := r.Gateways[name]; !exists {
		return false
	}
	delete(r.Gateways, name)
	return true
}

// Names returns the gateway names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Gateways))
	for name := range r.Gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateGatewayLastSeen stamps the gateway with the current time and address.
func (r *Registry) UpdateGatewayLastSeen(name, address string) {
	gw := r.EnsureGateway(name)
	gw.LastSeen = time.Now()
	if address != "" {
		gw.Address = address
	}
}

// FindByAddress returns the name of the gateway saved with address, if any.
func (r *Registry) FindByAddress(address string) (string, bool) {
	for _, name := range r.Names() {
		if r.Gateways[name].Address == address {
			return name, true
		}
	}
	return "", false
}

// SetChannel adds or replaces the plan for plan.Channel on the named gateway.
// The plan is validated first.
func (r *Registry) SetChannel(name string, plan ChannelPlan) error {
	if err := ValidateChannelPlan(plan); err != nil {
		return err
	}

	gw := r.EnsureGateway(name)
	for i := range gw.Channels {
		if gw.Channels[i].Channel == plan.Channel {
			gw.Channels[i] = plan
			return nil
		}
	}

	gw.Channels = append(gw.Channels, plan)
	sort.Slice(gw.Channels, func(i, j int) bool {
		return gw.Channels[i].Channel < gw.Channels[j].Channel
	})
	return nil
}

// RemoveChannel deletes the plan for a channel. Reports whether it existed.
func (r *Registry) RemoveChannel(name string, channel int) bool {
	gw := r.GetGateway(name)
	if gw == nil {
		return false
	}

	for i := range gw.Channels {
		if gw.Channels[i].Channel == channel {
			gw.Channels = append(gw.Channels[:i], gw.Channels[i+1:]...)
			return true
		}
	}
	return false
}

// ValidateChannelPlan checks a plan before it is saved or applied. The gateway
// client accepts anything; this catches mistakes the gateway would silently
// accept, such as a channel whose receive route falls outside the route table.
func ValidateChannelPlan(plan ChannelPlan) error {
	if plan.Channel < 1 {
		return gateway.NewValidationError(fmt.Sprintf("channel must be 1 or greater, got %d", plan.Channel))
	}

	if receive, _ := gateway.RouteNumbersForChannel(plan.Channel); receive > gateway.MaxRouteIndex {
		return gateway.NewValidationError(fmt.Sprintf(
			"channel %d needs route %d, but the gateway only has routes 0-%d",
			plan.Channel, receive, gateway.MaxRouteIndex))
	}

	if plan.Port == 0 {
		return gateway.NewValidationError("port must be between 1 and 65535")
	}

	if plan.BitrateKbits <= 0 {
		return gateway.NewValidationError(fmt.Sprintf("bit rate must be positive, got %v kbit/s", plan.BitrateKbits))
	}

	if _, err := gateway.ParseTargetAddress(plan.Target); err != nil {
		return err
	}
	if ip := net.ParseIP(plan.Target); ip == nil || ip.To4() == nil {
		return gateway.NewValidationError(fmt.Sprintf("target %q is not an IPv4 address", plan.Target))
	}

	return nil
}

// CommonBitrates lists the bus speeds offered by the gateway's web form, in kbit/s.
var CommonBitrates = []float64{1000, 800, 500, 250, 125, 100, 95.238, 83.333, 50, 47.619, 33.333, 20, 10, 5}

// IsCommonBitrate reports whether kbits matches one of CommonBitrates after
// the truncation the gateway client applies.
func IsCommonBitrate(kbits float64) bool {
	for _, b := range CommonBitrates {
		if gateway.BitrateHz(b) == gateway.BitrateHz(kbits) {
			return true
		}
	}
	return false
}
