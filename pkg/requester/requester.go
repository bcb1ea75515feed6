// Package requester issues individual HTTP probes against a scan target and
// normalizes the outcome into a Response the classification layer can work
// with. It never retries and never follows redirects: the scanner needs the
// raw first answer for every candidate path.
package requester

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/lanyi1998/dirsearch/pkg/defaults"
	"github.com/lanyi1998/dirsearch/pkg/httpclient"
)

// Response is the normalized result of one probe.
type Response struct {
	// Status is the HTTP status code. Always non-zero for a response that
	// actually came back from the server.
	Status int

	// Headers are the response headers as received.
	Headers http.Header

	// Body is the response body, truncated to defaults.MaxBodyBytes.
	Body string

	// ContentLength is the length of Body after truncation.
	ContentLength int

	// Redirect is the Location header for 3xx responses, empty otherwise.
	Redirect string
}

// RequestError wraps a network-level probe failure with the path that
// triggered it and a human-readable message.
type RequestError struct {
	Path    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %q failed: %s", e.Path, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Requester performs one probe per call. Implementations must be safe for
// concurrent use; every scan worker shares a single instance.
type Requester interface {
	Request(path string) (*Response, error)
}

// HTTP is the production Requester. It joins candidate paths onto a base
// URL and probes them over a pooled client.
type HTTP struct {
	BaseURL string
	Method  string
	Headers map[string]string

	client *http.Client
}

// Option mutates an HTTP requester during construction.
type Option func(*HTTP)

// WithClient overrides the pooled default client.
func WithClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// WithHeaders sets extra headers sent with every probe.
func WithHeaders(headers map[string]string) Option {
	return func(h *HTTP) { h.Headers = headers }
}

// WithMethod overrides the probe method (default GET).
func WithMethod(method string) Option {
	return func(h *HTTP) { h.Method = method }
}

// New creates an HTTP requester for the given base URL.
func New(baseURL string, opts ...Option) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	h := &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/") + "/",
		Method:  http.MethodGet,
		client:  httpclient.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Request probes a single candidate path. A non-nil error is always a
// *RequestError; HTTP-level failures (404, 500, ...) are not errors.
func (h *HTTP) Request(path string) (*Response, error) {
	target := h.BaseURL + strings.TrimLeft(path, "/")

	req, err := http.NewRequest(h.Method, target, nil)
	if err != nil {
		return nil, &RequestError{Path: path, Message: err.Error(), Err: err}
	}
	req.Header.Set("User-Agent", defaults.UserAgent)
	req.Header.Set("Accept", "*/*")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &RequestError{Path: path, Message: describe(err), Err: classify(err)}
	}
	defer func() {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, defaults.MaxBodyBytes))
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaults.MaxBodyBytes))
	if err != nil {
		return nil, &RequestError{Path: path, Message: describe(err), Err: classify(err)}
	}

	return &Response{
		Status:        resp.StatusCode,
		Headers:       resp.Header,
		Body:          string(body),
		ContentLength: len(body),
		Redirect:      resp.Header.Get("Location"),
	}, nil
}

// classify maps low-level transport errors onto the package sentinels so
// callers can errors.Is() them.
func classify(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %s", ErrDNS, dnsErr.Name)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnect, opErr)
	}
	return err
}

// describe produces the human-readable message handed to error callbacks.
func describe(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "request timed out"
		}
		err = urlErr.Err
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "cannot resolve " + dnsErr.Name
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}
	return err.Error()
}
