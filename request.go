package pollfetch

import (
	"errors"
	"net/url"
	"time"
)

// Request describes one outgoing call: the target resource plus request
// options and an optional polling configuration.
//
// A Request is owned by a single invocation of [Client.Do]. It may be
// modified only through the [PollConfig.OnRequest] hook before the initial
// call is issued; after that the invocation treats it as immutable.
type Request struct {
	// URL is the target resource. Required.
	URL string

	// Method is the HTTP method. Empty defaults to GET.
	Method string

	// Headers are custom HTTP headers sent with the initial request.
	Headers map[string]string

	// Body is the request body for the initial request. May be nil.
	Body []byte

	// Timeout bounds the initial transport call. Zero means no per-request
	// timeout beyond the invocation's context.
	Timeout time.Duration

	// Polling enables the polling cycle for this call. When nil (and the
	// client carries no defaults), Do is a plain pass-through call.
	Polling *PollConfig
}

// validate checks the fields required before a request can be issued.
func (r Request) validate() error {
	if r.URL == "" {
		return errors.New("request URL cannot be empty")
	}
	parsed, err := url.Parse(r.URL)
	if err != nil {
		return errors.New("invalid URL: " + err.Error())
	}
	if parsed.Scheme == "" {
		return errors.New("URL must have a scheme (http:// or https://)")
	}
	return nil
}

// merge overlays a patch returned by an OnRequest hook onto the pending
// request. The merge is shallow: each non-zero field of the patch replaces
// the corresponding field wholesale (Headers included: maps are swapped,
// not combined). The Polling block is never patched; it is fixed once the
// invocation starts.
func (r Request) merge(patch Request) Request {
	out := r
	if patch.URL != "" {
		out.URL = patch.URL
	}
	if patch.Method != "" {
		out.Method = patch.Method
	}
	if patch.Headers != nil {
		out.Headers = patch.Headers
	}
	if patch.Body != nil {
		out.Body = patch.Body
	}
	if patch.Timeout != 0 {
		out.Timeout = patch.Timeout
	}
	return out
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
