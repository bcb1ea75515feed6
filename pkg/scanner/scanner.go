// Package scanner decides whether a probe response should be trusted as a
// genuine hit. Many servers answer every path with a "soft 200" wildcard
// page; a Scanner learns what that page looks like by probing a path that
// cannot exist, then rejects responses that look the same.
//
// A Scanner can be scoped to a prefix, a suffix, or to caller-supplied
// calibration content, so that wildcard behavior that only shows up for,
// say, ".php" paths or dot-prefixed paths is still caught.
package scanner

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lanyi1998/dirsearch/pkg/defaults"
	"github.com/lanyi1998/dirsearch/pkg/requester"
)

// Options scope a Scanner to a discriminator. At most one field should be
// set; a zero Options produces the unscoped default scanner.
type Options struct {
	// Prefix scopes the scanner to paths starting with this string.
	Prefix string

	// Suffix scopes the scanner to paths ending with this string.
	Suffix string

	// Calibration probes this exact path for the baseline instead of a
	// generated one.
	Calibration string

	// Threshold overrides the simhash hamming distance below which a body
	// is considered the same wildcard page.
	Threshold int
}

// Scanner holds the wildcard baseline for one discriminator.
// Safe for concurrent use after construction: all fields are read-only.
type Scanner struct {
	prefix string
	suffix string

	wildcard    bool
	status      int
	redirect    string
	bodyHash    uint64
	fingerprint uint64
	threshold   int
}

// New builds a Scanner by probing a baseline path shaped by opts. It is the
// only time a Scanner touches the network; Scan never issues requests.
func New(req requester.Requester, opts Options) (*Scanner, error) {
	s := &Scanner{
		prefix:    opts.Prefix,
		suffix:    opts.Suffix,
		threshold: opts.Threshold,
	}
	if s.threshold <= 0 {
		s.threshold = defaults.SimhashThreshold
	}

	testPath := opts.Calibration
	if testPath == "" {
		testPath = opts.Prefix + randomToken() + opts.Suffix
	}

	resp, err := req.Request(testPath)
	if err != nil {
		return nil, fmt.Errorf("wildcard calibration for %q: %w", testPath, err)
	}

	if resp.Status == http.StatusNotFound {
		// Well-behaved target: nothing to reject
		return s, nil
	}

	s.wildcard = true
	s.status = resp.Status
	s.redirect = resp.Redirect
	s.bodyHash = ContentHash(resp.Body)
	s.fingerprint = Simhash(resp.Body)
	return s, nil
}

// Scan reports whether resp should be trusted as a genuine hit for path.
// It is idempotent for a given (path, response) pair and safe to call from
// any worker in any order.
func (s *Scanner) Scan(path string, resp *requester.Response) bool {
	if !s.wildcard || resp == nil {
		return true
	}
	if resp.Status != s.status {
		return true
	}
	if s.redirect != "" && resp.Redirect != "" {
		// Wildcard redirect target differing only by the probed path
		if normalizeRedirect(s.redirect) == normalizeRedirect(resp.Redirect) {
			return false
		}
	}
	if resp.ContentLength > 0 && ContentHash(resp.Body) == s.bodyHash {
		return false
	}
	return HammingDistance(Simhash(resp.Body), s.fingerprint) > s.threshold
}

// String identifies the scanner's scope, mostly for debug output.
func (s *Scanner) String() string {
	switch {
	case s.prefix != "":
		return "prefix=" + s.prefix
	case s.suffix != "":
		return "suffix=" + s.suffix
	default:
		return "default"
	}
}

// randomToken returns a path segment that cannot plausibly exist on the
// target server.
func randomToken() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if len(token) > defaults.TestPathLength {
		token = token[:defaults.TestPathLength]
	}
	return token
}

// normalizeRedirect strips the last path segment so two wildcard redirects
// that only differ by the requested path compare equal.
func normalizeRedirect(location string) string {
	location, _, _ = strings.Cut(location, "?")
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[:i]
	}
	return location
}
