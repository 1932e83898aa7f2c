// Package logging provides structured logging for pcangw.
//
// This package wraps a zap logger with convenience functions. The logger is
// silent until Initialize is called with a level or PCANGW_LOG_LEVEL is set,
// so library users of the gateway package get no output they did not ask for.
//
// # Log Levels
//
//   - Debug: every request and response of a gateway session, mDNS entries
//   - Info: operation start and finish
//   - Warn: rejected configuration requests, non-OK login responses
//   - Error: command failures
//
// # Structured Logging
//
// Gateway sessions attach their ID to every line so the requests of one
// operation can be followed:
//
//	2026-01-12T10:30:45.123+0100  DEBUG  Sending gateway request
//	  session=7c6f...  device=192.168.1.10  method=POST  step=route_add
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logs go to stderr so that --format json output on stdout stays parseable.
package logging
