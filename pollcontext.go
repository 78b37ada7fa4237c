package pollfetch

import "time"

// Context carries the state of one polling invocation. It is created once
// the initial reply has been received and passed by reference to every
// subsequent hook (OnInit, OnPoll, OnAbort) of the same invocation.
//
// The fixed fields are system-owned and read-mostly from the hooks' point of
// view. Hooks that need to pass ad hoc state forward (a task id discovered
// in the initial reply, say) should use [Context.Set] and [Context.Value]
// rather than external variables, keeping the state scoped to the
// invocation.
//
// A Context is exclusively owned by its invocation and must not be retained
// after [Client.Do] returns.
type Context struct {
	// Request is the descriptor the initial request was issued with, after
	// any OnRequest transformation.
	Request Request

	// InitReply is the reply to the initial request. Never nil.
	InitReply *Reply

	// LastReply is the most recent final polling reply. It is nil until an
	// OnPoll outcome completes the invocation.
	LastReply *Reply

	// Retries counts completed polling attempts that did not finish the
	// invocation. It starts at 0 and increments after each such attempt.
	Retries int

	// StartedAt is when the invocation's context was created, immediately
	// after the initial reply arrived.
	StartedAt time.Time

	// Config is the effective merged polling configuration.
	Config PollConfig

	values map[string]any
}

// Set attaches an arbitrary value to the invocation for use by later hooks.
func (pc *Context) Set(key string, value any) {
	if pc.values == nil {
		pc.values = make(map[string]any)
	}
	pc.values[key] = value
}

// Value returns a value previously attached with [Context.Set].
func (pc *Context) Value(key string) (any, bool) {
	v, ok := pc.values[key]
	return v, ok
}
