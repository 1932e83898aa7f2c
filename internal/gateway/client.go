package gateway

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/pcangw/internal/logging"
)

const (
	// DefaultUsername is the factory web interface username
	DefaultUsername = "admin"

	// DefaultPassword is the factory web interface password
	DefaultPassword = "admin"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second
)

// Credentials is the username/password pair used to log in to a gateway
type Credentials struct {
	Username string
	Password string
}

// DefaultCredentials returns the factory admin/admin pair
func DefaultCredentials() Credentials {
	return Credentials{Username: DefaultUsername, Password: DefaultPassword}
}

// Configurator is the set of operations a gateway configuration client offers.
// *Client implements it; callers that only drive configuration can depend on
// this interface instead.
type Configurator interface {
	ChangeLoginCredentials(username, password string)
	GetLoginCredentials() (string, string)
	CreateSendRoute(device, target string, routeNumber, channel int, port uint16) (*Result, error)
	CreateReceiveRoute(device string, routeNumber, channel int, port uint16) (*Result, error)
	RemoveAllRoutes(device string) (*Result, error)
	SetChannelBaudRate(device string, channel int, baudRateKbits float64) (*Result, error)
	CreateCanChannel(channel int, device, target string, port uint16, baudRateKbits float64) (*Result, error)
}

var _ Configurator = (*Client)(nil)

// Client configures PCAN gateways through their web interface.
//
// A Client is not bound to one gateway: every operation takes the gateway
// address, opens its own session, and closes it before returning. Operations
// against the same gateway are not serialized; callers that need that must
// arrange it themselves.
type Client struct {
	// HTTPClient supplies the transport and timeout for every session.
	// Its Jar is never used; each session gets a fresh one.
	HTTPClient *http.Client

	// Logger receives structured logs (default: logging.GetLogger())
	Logger *zap.Logger

	// OnStep, if set, is called after every request with its outcome
	OnStep func(StepResult)

	credsMutex sync.RWMutex
	creds      Credentials
}

// NewClient creates a client with the factory credentials
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		creds:      DefaultCredentials(),
	}
}

// NewClientWithCredentials creates a client with the given credentials
func NewClientWithCredentials(username, password string) *Client {
	c := NewClient()
	c.ChangeLoginCredentials(username, password)
	return c
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	c.HTTPClient.Timeout = timeout
}

// ChangeLoginCredentials replaces the stored credentials. Takes effect on the
// next operation; no validation is done.
func (c *Client) ChangeLoginCredentials(username, password string) {
	c.credsMutex.Lock()
	defer c.credsMutex.Unlock()
	c.creds = Credentials{Username: username, Password: password}
}

// GetLoginCredentials returns the stored username and password
func (c *Client) GetLoginCredentials() (string, string) {
	creds := c.Credentials()
	return creds.Username, creds.Password
}

// Credentials returns a snapshot of the stored credentials
func (c *Client) Credentials() Credentials {
	c.credsMutex.RLock()
	defer c.credsMutex.RUnlock()
	return c.creds
}

// CreateSendRoute creates a CAN to IP route on the gateway at device. The
// target address must have four dotted parts; it is checked before anything
// is sent. channel is 1-based.
func (c *Client) CreateSendRoute(device, target string, routeNumber, channel int, port uint16) (*Result, error) {
	octets, err := ParseTargetAddress(target)
	if err != nil {
		return nil, err
	}

	result, session, err := c.begin("CreateSendRoute", device)
	if err != nil {
		return result, err
	}
	defer c.end(session, result)

	route := NewSendRoute(routeNumber, channel, octets, port)
	if res := session.Send(http.MethodPost, route.Path(), StepRouteAdd, route.Description()); isTransport(res) {
		return result, res.Err
	}
	return result, nil
}

// CreateReceiveRoute creates an IP to CAN route on the gateway at device.
// The gateway listens on any local address for the given port.
func (c *Client) CreateReceiveRoute(device string, routeNumber, channel int, port uint16) (*Result, error) {
	result, session, err := c.begin("CreateReceiveRoute", device)
	if err != nil {
		return result, err
	}
	defer c.end(session, result)

	route := NewReceiveRoute(routeNumber, channel, port)
	if res := session.Send(http.MethodPost, route.Path(), StepRouteAdd, route.Description()); isTransport(res) {
		return result, res.Err
	}
	return result, nil
}

// RemoveAllRoutes deletes every route slot from MaxRouteIndex down to 0,
// whether or not the slot is in use. A failed delete does not stop the sweep;
// all failures are collected on the result (see Result.Err).
func (c *Client) RemoveAllRoutes(device string) (*Result, error) {
	result, session, err := c.begin("RemoveAllRoutes", device)
	if err != nil {
		return result, err
	}
	defer c.end(session, result)

	for index := MaxRouteIndex; index >= 0; index-- {
		session.Send(http.MethodGet, DeleteRoutePath(index), StepRouteDelete, "Delete route "+strconv.Itoa(index))
	}
	return result, nil
}

// SetChannelBaudRate sets the bit rate of a 1-based channel. The kbit/s value
// is truncated before it is scaled to bit/s.
func (c *Client) SetChannelBaudRate(device string, channel int, baudRateKbits float64) (*Result, error) {
	result, session, err := c.begin("SetChannelBaudRate", device)
	if err != nil {
		return result, err
	}
	defer c.end(session, result)

	change := BitrateChange{Channel: channel, Kbits: baudRateKbits}
	if res := session.Send(http.MethodPost, change.Path(), StepBitrate, change.Description()); isTransport(res) {
		return result, res.Err
	}
	return result, nil
}

// CreateCanChannel sets up a channel in one session: an IP to CAN route on
// slot channel*2, a CAN to IP route on slot channel*2-1, and the bit rate.
// A rejected step does not stop the next one and nothing is rolled back.
// A transport error aborts the remaining steps.
func (c *Client) CreateCanChannel(channel int, device, target string, port uint16, baudRateKbits float64) (*Result, error) {
	octets, err := ParseTargetAddress(target)
	if err != nil {
		return nil, err
	}

	result, session, err := c.begin("CreateCanChannel", device)
	if err != nil {
		return result, err
	}
	defer c.end(session, result)

	receiveIndex, sendIndex := RouteNumbersForChannel(channel)

	receive := NewReceiveRoute(receiveIndex, channel, port)
	if res := session.Send(http.MethodPost, receive.Path(), StepRouteAdd, receive.Description()); isTransport(res) {
		return result, res.Err
	}

	send := NewSendRoute(sendIndex, channel, octets, port)
	if res := session.Send(http.MethodPost, send.Path(), StepRouteAdd, send.Description()); isTransport(res) {
		return result, res.Err
	}

	change := BitrateChange{Channel: channel, Kbits: baudRateKbits}
	if res := session.Send(http.MethodPost, change.Path(), StepBitrate, change.Description()); isTransport(res) {
		return result, res.Err
	}
	return result, nil
}

// begin snapshots the credentials and opens a session for one operation
func (c *Client) begin(operation, device string) (*Result, *Session, error) {
	result := newResult(operation, device)
	creds := c.Credentials()

	c.logger().Info("Starting gateway operation",
		zap.String("operation", operation),
		zap.String("device", device),
		zap.String("username", creds.Username),
	)

	session, err := c.authenticate(device, creds, result)
	if err != nil {
		result.finish()
		return result, nil, err
	}
	result.SessionID = session.ID
	return result, session, nil
}

// end closes the session and stamps the result
func (c *Client) end(session *Session, result *Result) {
	session.Close()
	result.finish()

	fields := []zap.Field{
		zap.String("operation", result.Operation),
		zap.String("device", result.Device),
		zap.String("session", result.SessionID),
		zap.Int("steps", len(result.Steps)),
		zap.Duration("duration", result.Duration),
	}
	if err := result.Err(); err != nil {
		c.logger().Warn("Gateway operation finished with failures", append(fields, zap.Error(err))...)
		return
	}
	c.logger().Info("Gateway operation finished", fields...)
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.GetLogger()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) baseURL(device string) string {
	return "http://" + strings.TrimSuffix(device, "/")
}

// isTransport reports whether the step failed before a response arrived
func isTransport(res StepResult) bool {
	return res.Err != nil && IsNetworkError(res.Err)
}
