package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a transport-level error that has no finer classification
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the gateway refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a configuration request answered with a non-200 status
	ErrTypeHTTP
	// ErrTypeMalformedAddress indicates a target address that is not four dotted parts
	ErrTypeMalformedAddress
	// ErrTypeValidation indicates an invalid caller-supplied value
	ErrTypeValidation
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeMalformedAddress:
		return "Malformed Address"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// GatewayError represents an error that occurred while talking to a gateway
type GatewayError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Device         string              // Gateway address (for context)
	Step           string              // Step that produced the error (e.g. "route_add")
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error, device string) *GatewayError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &GatewayError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Device:         device,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &GatewayError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Device:         device,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &GatewayError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Gateway refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Device:         device,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &GatewayError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Device:         device,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &GatewayError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Device:         device,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err, device)
	}

	return &GatewayError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Device:         device,
	}
}

// NewNetworkError creates a transport error with automatic classification
func NewNetworkError(device, step, message string, err error) *GatewayError {
	classified := ClassifyNetworkError(err, device)
	if classified == nil {
		classified = &GatewayError{
			Type:   ErrTypeNetwork,
			Device: device,
		}
	}
	classified.Message = message
	classified.Step = step
	return classified
}

// NewHTTPError creates a configuration request failure for a non-200 response
func NewHTTPError(device, step string, statusCode int) *GatewayError {
	return &GatewayError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("%s returned status %d", step, statusCode),
		StatusCode: statusCode,
		Device:     device,
		Step:       step,
	}
}

// NewMalformedAddressError creates an error for a target address that does not
// split into exactly four dotted parts
func NewMalformedAddressError(address string, parts int) *GatewayError {
	return &GatewayError{
		Type:    ErrTypeMalformedAddress,
		Message: fmt.Sprintf("target address %q has %d part(s), want 4", address, parts),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *GatewayError {
	return &GatewayError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func errorType(err error) (ErrorType, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Type, true
	}
	return ErrTypeUnknown, false
}

// IsNetworkError reports whether err is a transport error (timeout, refused, DNS, ...)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	if !ok {
		return false
	}
	return t == ErrTypeNetwork ||
		t == ErrTypeTimeout ||
		t == ErrTypeConnectionRefused ||
		t == ErrTypeDNS
}

// IsHTTPError reports whether err is a configuration request failure
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsMalformedAddressError reports whether err is a malformed target address
func IsMalformedAddressError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeMalformedAddress
}

// IsValidationError reports whether err is a validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch gwErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The gateway did not respond in time.",
			"Troubleshooting:",
			"  • Check that the gateway is powered on",
			"  • Verify the gateway address and that it is on your subnet",
			"  • Try increasing --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The gateway refused the connection.",
			"Troubleshooting:",
			"  • Confirm the web interface is enabled on the gateway",
			"  • Check that nothing else is bound to the address you entered",
			"  • Power cycle the gateway",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the gateway hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of the hostname",
			"  • Run 'pcangw-cfg scan' to find gateways via mDNS",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch gwErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The gateway is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the gateway IP address is correct",
				"  • Check cabling and link LEDs on the gateway",
				"  • Try pinging the gateway: ping "+gwErr.Device)

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer cannot reach the gateway's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Add an address on the gateway's subnet")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the gateway is powered on")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		return strings.Join([]string{
			fmt.Sprintf("The gateway rejected a configuration request (HTTP %d).", gwErr.StatusCode),
			"Login failures are only visible here: the login itself is never checked.",
			"Troubleshooting:",
			"  • Check --username/--password (factory default admin/admin)",
			"  • Make sure no other browser session holds the gateway in expert mode",
		}, "\n")

	case ErrTypeMalformedAddress:
		return "The target address must have four dot-separated parts, e.g. 10.0.0.5."

	case ErrTypeValidation:
		return "The configuration values are invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		return err.Error()
	}

	switch gwErr.Type {
	case ErrTypeTimeout:
		return "Gateway not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Gateway refused connection"
	case ErrTypeDNS:
		return "Cannot resolve gateway hostname"
	case ErrTypeNetwork:
		switch gwErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Gateway unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check adapter settings"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Gateway error (HTTP %d)", gwErr.StatusCode)
	default:
		return gwErr.Message
	}
}
