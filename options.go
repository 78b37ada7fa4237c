package pollfetch

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jpalmerr/pollfetch/internal/transport"
)

// clientConfig holds mutable state during Client construction.
type clientConfig struct {
	logger        *slog.Logger
	defaults      PollConfig
	hasDefaults   bool
	transportOpts []transport.Option
}

// Option is a function that configures a [Client] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithLogger], [WithDefaults], [WithHTTPClient],
// [WithHTTP2].
type Option func(*clientConfig) error

// WithLogger sets a custom [slog.Logger] for the client.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	client, err := pollfetch.New(pollfetch.WithLogger(logger))
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithDefaults sets the client's default polling configuration, applied to
// every call and merged field by field under any per-call Polling block.
// Equivalent to calling [Client.With] on a freshly constructed client.
//
// Example:
//
//	client, err := pollfetch.New(
//	    pollfetch.WithDefaults(pollfetch.PollConfig{
//	        Interval: 5 * time.Second,
//	        OnPoll:   checkStatus,
//	    }),
//	)
func WithDefaults(defaults PollConfig) Option {
	return func(cfg *clientConfig) error {
		cfg.defaults = cfg.defaults.merge(defaults)
		cfg.hasDefaults = true
		return nil
	}
}

// WithHTTPClient replaces the underlying *http.Client.
//
// Use this to supply custom transports, proxies, or test doubles. The
// replacement client is used as-is; the default connection pooling
// configuration does not apply.
//
// Returns an error if the client is nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *clientConfig) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.transportOpts = append(cfg.transportOpts, transport.WithHTTPClient(hc))
		return nil
	}
}

// WithHTTP2 switches the transport to HTTP/2 with the given TLS
// configuration. Use this for endpoints that require HTTP/2, such as
// gRPC-adjacent status APIs or servers behind HTTP/2-only load balancers.
//
// Returns an error if the TLS configuration is nil.
func WithHTTP2(tlsConfig *tls.Config) Option {
	return func(cfg *clientConfig) error {
		if tlsConfig == nil {
			return errors.New("TLS configuration cannot be nil")
		}
		cfg.transportOpts = append(cfg.transportOpts, transport.WithHTTP2(tlsConfig))
		return nil
	}
}
