// Package defaults provides canonical default values for the entire codebase.
// This is the single source of truth for runtime configuration defaults.
//
// Usage:
//
//	cfg.Threads = defaults.ThreadsMedium
//	req.Header.Set("User-Agent", defaults.UserAgent)
package defaults

import "time"

// Version is the current dirsearch version
const Version = "0.4.2"

// UserAgent is sent with every probe unless the caller overrides it.
const UserAgent = "Mozilla/5.0 (compatible; dirsearch/" + Version + ")"

// Worker pool sizes. Choose based on how aggressive the scan should be;
// the engine clamps the value to the wordlist size either way.
const (
	// ThreadsMinimal runs a single worker (1)
	ThreadsMinimal = 1

	// ThreadsLow is for careful scanning of fragile targets (5)
	ThreadsLow = 5

	// ThreadsMedium is the standard scanning pool (10)
	ThreadsMedium = 10

	// ThreadsHigh is for aggressive scanning (25)
	ThreadsHigh = 25

	// ThreadsMax is the largest pool the CLI will configure (50)
	ThreadsMax = 50
)

// HTTP timeouts.
const (
	// RequestTimeout is the total per-probe timeout
	RequestTimeout = 30 * time.Second

	// DialTimeout is the connection establishment timeout
	DialTimeout = 10 * time.Second

	// TLSHandshakeTimeout bounds the TLS handshake
	TLSHandshakeTimeout = 10 * time.Second

	// IdleConnTimeout is how long idle connections stay pooled
	IdleConnTimeout = 90 * time.Second
)

// MaxBodyBytes caps how much of a response body is read per probe.
// Responses larger than this are truncated before classification.
const MaxBodyBytes = 1 << 20

// Rate limiting.
const (
	// RateUnlimited disables the request-rate cap
	RateUnlimited = 0

	// RateWindow is the trailing window the cap approximates
	RateWindow = time.Second
)

// Wildcard detection.
const (
	// SimhashThreshold is the max hamming distance at which two response
	// bodies are considered the same wildcard page.
	SimhashThreshold = 5

	// TestPathLength is the length of the random token used to provoke
	// a wildcard response during scanner calibration.
	TestPathLength = 12
)
