package pollfetch

import "errors"

// AbortError is returned when an invocation is cancelled: either the context
// was already done when [Client.Do] was entered, or it was cancelled at the
// top of a polling iteration or during an inter-poll wait.
//
// Errors from hooks or from the transport are never converted into an
// AbortError; they propagate verbatim. In particular, a transport call that
// fails because the context was cancelled mid-flight surfaces the
// transport's own error (which wraps the context error per net/http
// semantics), not an AbortError.
type AbortError struct {
	// Cause is the context error that triggered the abort
	// (context.Canceled or context.DeadlineExceeded).
	Cause error
}

// Error implements the error interface with a fixed message.
func (e *AbortError) Error() string {
	return "pollfetch: call aborted"
}

// Unwrap returns the underlying context error, so
// errors.Is(err, context.Canceled) works on an aborted invocation.
func (e *AbortError) Unwrap() error {
	return e.Cause
}

// IsAborted reports whether err is (or wraps) an [AbortError].
func IsAborted(err error) bool {
	var ae *AbortError
	return errors.As(err, &ae)
}
