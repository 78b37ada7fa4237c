package pollfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Checker inspects a status [Reply] and decides whether the invocation is
// finished. It returns a non-nil [Outcome] when done, or nil to keep
// polling. Checkers compose with [FirstMatch] and plug into an OnPoll hook
// via [Client.CheckURL] or [Client.CheckFunc].
//
// Checkers follow functional programming principles: each is a pure
// function of the reply, which makes them easy to test and compose.
//
// # Panic Safety
//
// Checkers run inside a panic recovery boundary when invoked through
// CheckURL/CheckFunc. A panicking checker fails the invocation with an
// error carrying a correlation ID; the full stack trace is logged
// server-side under the same ID.
type Checker func(r *Reply) (*Outcome, error)

// StatusOK returns a [Checker] that finishes the invocation as soon as the
// status endpoint answers with a 2xx code, passing the reply through
// verbatim. Non-2xx replies keep the poll going.
func StatusOK() Checker {
	return func(r *Reply) (*Outcome, error) {
		if r.OK() {
			return Done(r), nil
		}
		return nil, nil
	}
}

// JSONFieldEquals returns a [Checker] that decodes the reply body as JSON,
// navigates to a field using dot notation, and finishes the invocation when
// the field equals any of the wanted values (case-insensitive).
//
// For example, JSONFieldEquals("data.status", "completed", "failed")
// matches {"data": {"status": "completed"}}. Boolean and numeric values are
// converted: true/1 become "true", false/0 become "false".
//
// A body that is not JSON, or that lacks the field, keeps the poll going.
//
// Example:
//
//	check := pollfetch.JSONFieldEquals("status", "completed")
func JSONFieldEquals(path string, want ...string) Checker {
	parts := strings.Split(path, ".")

	return func(r *Reply) (*Outcome, error) {
		var data interface{}
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return nil, nil
		}

		value := extractJSONPath(data, parts)
		if value == "" {
			return nil, nil
		}

		for _, w := range want {
			if strings.EqualFold(value, w) {
				return Done(r), nil
			}
		}
		return nil, nil
	}
}

// extractJSONPath walks a JSON structure using dot notation parts.
func extractJSONPath(data interface{}, parts []string) string {
	current := data

	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = obj[part]
		if !ok {
			return ""
		}
	}

	switch v := current.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		if v == 0 {
			return "false"
		}
		if v == 1 {
			return "true"
		}
		// convert other numbers to string representation
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// BodyContains returns a [Checker] that finishes the invocation when the
// reply body contains the given text (case-insensitive).
//
// This is useful for plain-text status endpoints that answer "done" or
// "completed" without JSON structure.
func BodyContains(text string) Checker {
	lower := strings.ToLower(text)
	return func(r *Reply) (*Outcome, error) {
		if strings.Contains(strings.ToLower(string(r.Body)), lower) {
			return Done(r), nil
		}
		return nil, nil
	}
}

// BodyMatches returns a [Checker] that finishes the invocation when the
// reply body matches the given regular expression.
//
// Returns an error if the pattern is invalid.
//
// Example:
//
//	check, err := pollfetch.BodyMatches(`"state":\s*"(complete|failed)"`)
func BodyMatches(pattern string) (Checker, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	return func(r *Reply) (*Outcome, error) {
		if re.Match(r.Body) {
			return Done(r), nil
		}
		return nil, nil
	}, nil
}

// MustBodyMatches is like [BodyMatches] but panics if the pattern is
// invalid.
//
// Use this for compile-time constant patterns where you want to fail fast
// on invalid regex. For runtime patterns, use [BodyMatches] instead.
func MustBodyMatches(pattern string) Checker {
	check, err := BodyMatches(pattern)
	if err != nil {
		panic("pollfetch: invalid regex pattern: " + err.Error())
	}
	return check
}

// FirstMatch returns a [Checker] that tries multiple checkers in order,
// returning the first non-nil outcome (or error).
//
// This is useful for composing completion conditions with fallback
// behavior: for example, finishing on a terminal JSON state or on a
// distinctive body marker, whichever appears first:
//
//	check := pollfetch.FirstMatch(
//	    pollfetch.JSONFieldEquals("status", "completed"),
//	    pollfetch.BodyContains("done"),
//	)
func FirstMatch(checkers ...Checker) Checker {
	return func(r *Reply) (*Outcome, error) {
		for _, check := range checkers {
			out, err := check(r)
			if err != nil {
				return nil, err
			}
			if out != nil {
				return out, nil
			}
		}
		return nil, nil
	}
}

// CheckURL returns an OnPoll hook that fetches url on each attempt and
// applies check to the reply. The fetched reply is recorded nowhere unless
// the checker finishes the invocation with it.
//
// Example:
//
//	cfg := &pollfetch.PollConfig{
//	    OnPoll: client.CheckURL(statusURL, pollfetch.JSONFieldEquals("status", "completed")),
//	}
func (c *Client) CheckURL(url string, check Checker) PollHook {
	return c.CheckFunc(func(*Context) (string, error) { return url, nil }, check)
}

// CheckFunc is like [Client.CheckURL] but resolves the status URL per
// attempt from the invocation [Context], allowing hooks earlier in the
// invocation to discover the URL (say, from a task id in the initial reply)
// and pass it forward via [Context.Set].
func (c *Client) CheckFunc(urlFor func(pc *Context) (string, error), check Checker) PollHook {
	return func(ctx context.Context, pc *Context) (*Outcome, error) {
		url, err := urlFor(pc)
		if err != nil {
			return nil, err
		}

		reply, err := c.perform(ctx, Request{URL: url, Headers: copyMap(pc.Request.Headers), Timeout: pc.Request.Timeout})
		if err != nil {
			return nil, err
		}

		return c.safeCheck(check, reply)
	}
}

// safeCheck calls the checker with panic recovery. If the checker panics,
// the full stack trace is logged with a correlation ID and the invocation
// fails with a user-friendly error containing the ID.
func (c *Client) safeCheck(check Checker, reply *Reply) (out *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			// log full context server-side for debugging
			c.logger.Error("checker panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			out = nil
			err = fmt.Errorf("checker panic (correlation_id: %s)", correlationID)
		}
	}()
	return check(reply)
}
