// Package transport provides the HTTP client used by pollfetch invocations.
//
// This package is internal to pollfetch and wraps net/http with connection
// pooling limits, eager size-capped body reads, per-request context
// timeouts, and an optional HTTP/2 transport.
//
// Users of the pollfetch library should not need to interact with this
// package directly. Configuration is done through the main pollfetch
// package.
package transport
