package fuzzer

import "github.com/lanyi1998/dirsearch/pkg/requester"

// Result is an immutable record of one scanned candidate. Status is the
// HTTP status code for confirmed hits and zero when the wildcard scanners
// rejected the response, whatever the wire status was.
type Result struct {
	Path     string              `json:"path"`
	Status   int                 `json:"status"`
	Response *requester.Response `json:"-"`
}

// Found reports whether the candidate was classified as a genuine hit.
func (r *Result) Found() bool { return r.Status != 0 }

// ContentLength returns the probed body length, 0 if no response came back.
func (r *Result) ContentLength() int {
	if r.Response == nil {
		return 0
	}
	return r.Response.ContentLength
}

// Redirect returns the Location header of the response, if any.
func (r *Result) Redirect() string {
	if r.Response == nil {
		return ""
	}
	return r.Response.Redirect
}
