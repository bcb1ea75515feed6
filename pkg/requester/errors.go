package requester

import "errors"

// Sentinel errors for probe failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrConnect indicates the TCP connection to the target failed.
	ErrConnect = errors.New("requester: connection failed")

	// ErrTimeout indicates the probe exceeded its deadline.
	ErrTimeout = errors.New("requester: request timed out")

	// ErrDNS indicates a DNS resolution failure for the target host.
	ErrDNS = errors.New("requester: DNS resolution failed")
)
