package pollfetch

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Reply is the response returned for a request.
//
// The body is read eagerly by the transport (capped at 1MB), so a Reply can
// be inspected by hooks without consuming it for the caller. Use [Reply.JSON]
// to decode the body and [Reply.Clone] for an independent copy.
type Reply struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	StatusCode int

	// Header contains the response headers. For synthetic replies produced
	// by [Resolve] outcomes it carries only a Content-Type.
	Header http.Header

	// Body is the response body, limited to 1MB.
	Body []byte
}

// OK reports whether the reply has a 2xx status code.
func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the reply body into v.
func (r *Reply) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode reply body: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the reply. The copy shares nothing with the
// original, so a hook may mutate it freely.
func (r *Reply) Clone() *Reply {
	if r == nil {
		return nil
	}
	cp := &Reply{
		StatusCode: r.StatusCode,
		Header:     r.Header.Clone(),
	}
	if r.Body != nil {
		cp.Body = append([]byte(nil), r.Body...)
	}
	return cp
}

// syntheticReply boxes a plain hook value into a successful reply: status
// 200 with the value serialized as a JSON body. Used when an OnInit or
// OnPoll outcome carries a value rather than a ready-made reply.
func syntheticReply(v any) (*Reply, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outcome value: %w", err)
	}
	return &Reply{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}, nil
}
