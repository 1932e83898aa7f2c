// Package gateway provides an HTTP client for configuring PCAN CAN-to-IP gateways.
//
// The gateway has no API; it is configured through the PHP forms of its web
// interface. This package submits those forms directly: it logs in, switches
// the web session to expert mode, and then creates routes between CAN
// channels and UDP endpoints, deletes routes, and sets channel bit rates.
//
// # Sessions
//
// Every public operation opens its own cookie-bearing session (login, then
// expert mode), sends its configuration requests on that session, and closes
// it before returning. Sessions are never shared between operations.
//
// The login response is not checked. The gateway answers a wrong password the
// same way as a right one, so bad credentials only surface as a configuration
// request that does not return HTTP 200.
//
// # Usage Example
//
//	client := gateway.NewClient()
//	client.ChangeLoginCredentials("admin", "secret")
//
//	// Channel 1: route 2 receives UDP on port 5000, route 1 sends to 10.0.0.5:5000,
//	// and the bus runs at 500 kbit/s
//	result, err := client.CreateCanChannel(1, "192.168.1.10", "10.0.0.5", 5000, 500)
//	if err != nil {
//	    log.Fatal(err) // malformed address or transport failure
//	}
//	if !result.Success() {
//	    log.Printf("gateway rejected some requests: %v", result.Err())
//	}
//
// # Routes
//
// Route slots are 0-based and the gateway has MaxRoutes of them. Channels are
// 1-based in this package and converted to the gateway's 0-based "canN" form
// once, when the request is built. CreateCanChannel derives its slots from
// the channel (receive on channel*2, send on channel*2-1); the standalone
// route operations take the slot from the caller, who is responsible for
// avoiding collisions.
//
// # Errors
//
// Operations return an error only when nothing sensible can continue: a
// target address that is not four dotted parts (checked before any request)
// or a transport failure. A configuration request the gateway rejects is
// recorded on the Result instead; see Result.Success and Result.Err.
// RemoveAllRoutes never stops early, not even on transport errors.
//
// # Thread Safety
//
// The stored credentials are guarded by a mutex and every operation works on
// a snapshot taken at entry. Operations are otherwise independent; two
// concurrent operations on the same gateway are not serialized.
package gateway
