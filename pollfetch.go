package pollfetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pollfetch/internal/transport"
)

// DefaultInterval is the delay between polling attempts when the effective
// configuration does not specify one.
const DefaultInterval = 2 * time.Second

// RequestHook transforms the pending [Request] before the initial call is
// issued. It may return a full or partial descriptor; non-zero fields of the
// returned patch replace the corresponding fields of the pending request
// (shallow merge). Returning nil leaves the request unchanged. An error
// aborts the invocation before any request is issued.
type RequestHook func(ctx context.Context, req Request) (*Request, error)

// PollHook is the signature shared by the OnInit and OnPoll hooks. It
// receives the invocation [Context] and decides whether the invocation is
// finished by returning an [Outcome] (or nil to continue). An error aborts
// the invocation immediately.
type PollHook func(ctx context.Context, pc *Context) (*Outcome, error)

// AbortHook runs cleanup when a cancelled invocation is about to fail with
// an [AbortError]. It is invoked only if an initial reply already exists.
// The ctx passed to the hook is derived with context.WithoutCancel so that
// cleanup calls can still be made; an error returned here supersedes the
// AbortError.
type AbortHook func(ctx context.Context, pc *Context) error

// PollConfig configures the polling cycle for one call, or serves as the
// default configuration of a preconfigured client (see [Client.With]).
//
// All hooks are optional. For a single invocation they run in the fixed
// order OnRequest, transport call, OnInit, then (OnPoll, wait) repeated.
type PollConfig struct {
	// Interval is the delay between polling attempts.
	// Defaults to [DefaultInterval].
	Interval time.Duration

	// OnRequest may inspect and transform the outgoing request.
	OnRequest RequestHook

	// OnInit intercepts the initial reply. A non-nil Outcome becomes the
	// final result and OnPoll is never invoked.
	OnInit PollHook

	// OnPoll is the per-attempt check. When nil, the initial reply is
	// returned without any polling.
	OnPoll PollHook

	// OnAbort runs cleanup before a cancellation failure is surfaced.
	OnAbort AbortHook
}

// merge overlays override onto c field by field: each set field of override
// (non-zero interval, non-nil hook) replaces the corresponding field of c.
// The merge is shallow: hooks are swapped, never chained.
func (c PollConfig) merge(override PollConfig) PollConfig {
	out := c
	if override.Interval != 0 {
		out.Interval = override.Interval
	}
	if override.OnRequest != nil {
		out.OnRequest = override.OnRequest
	}
	if override.OnInit != nil {
		out.OnInit = override.OnInit
	}
	if override.OnPoll != nil {
		out.OnPoll = override.OnPoll
	}
	if override.OnAbort != nil {
		out.OnAbort = override.OnAbort
	}
	return out
}

// Client issues polling calls. Create one with [New], optionally derive
// preconfigured clients with [Client.With], and perform calls with
// [Client.Do].
//
// A Client is safe for concurrent use; each call to Do is an independent,
// strictly sequential invocation.
type Client struct {
	transport   *transport.Client
	defaults    PollConfig
	hasDefaults bool
	logger      *slog.Logger
}

// New creates a [Client] with the given options.
//
// Options have sensible defaults: the transport is a pooled HTTP/1.1 client,
// and logging goes to [slog.Default]. See [WithLogger], [WithDefaults],
// [WithHTTPClient], and [WithHTTP2].
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		transport:   transport.NewClient(cfg.transportOpts...),
		defaults:    cfg.defaults,
		hasDefaults: cfg.hasDefaults,
		logger:      logger,
	}, nil
}

// With returns a derived client whose default polling configuration is the
// shallow merge of the receiver's defaults and cfg (fields of cfg win).
//
// With composes: calling With on a derived client layers the new
// configuration over the already-merged defaults. The receiver is never
// modified, and the derived client shares the receiver's transport.
//
// A per-call Polling block on a [Request] always overrides the defaults,
// field by field.
func (c *Client) With(cfg PollConfig) *Client {
	derived := *c
	derived.defaults = c.defaults.merge(cfg)
	derived.hasDefaults = true
	return &derived
}

// Close releases idle connections held by the client's transport.
// The client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.transport == nil {
		return
	}
	c.transport.Close()
}

// Do performs one invocation: the initial request plus, if polling is
// configured, the repeated-check cycle.
//
// If the request carries no Polling block and the client has no defaults,
// Do degenerates to a single pass-through transport call and returns exactly
// what the transport returns.
//
// Otherwise Do runs the full cycle: cancellation pre-check, OnRequest
// transform, initial request, OnInit interception, then the OnPoll loop with
// the configured interval between attempts. Cancellation is observed
// cooperatively (before the initial request, at the top of each iteration,
// and during each wait) and surfaces as an [AbortError] after the OnAbort
// cleanup hook has run. Hook and transport errors propagate verbatim.
//
// Do settles exactly once: it returns either a reply or an error, never both.
func (c *Client) Do(ctx context.Context, req Request) (*Reply, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	cfg, polling := c.effectiveConfig(req.Polling)
	if !polling {
		return c.perform(ctx, req)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	callID := uuid.NewString()
	logger := c.logger.With("call_id", callID, "url", req.URL)

	// pre-check: a dead context means the invocation never started, so no
	// hooks fire, OnAbort included
	if err := ctx.Err(); err != nil {
		return nil, &AbortError{Cause: err}
	}

	if cfg.OnRequest != nil {
		patch, err := cfg.OnRequest(ctx, req)
		if err != nil {
			return nil, err
		}
		if patch != nil {
			req = req.merge(*patch)
			if err := req.validate(); err != nil {
				return nil, err
			}
		}
	}

	initReply, err := c.perform(ctx, req)
	if err != nil {
		// no invocation context exists yet; OnAbort does not run even if
		// the failure was caused by a concurrent cancellation
		return nil, err
	}
	logger.Debug("initial request completed", "status", initReply.StatusCode)

	pc := &Context{
		Request:   req,
		InitReply: initReply,
		StartedAt: time.Now(),
		Config:    cfg,
	}

	if cfg.OnInit != nil {
		out, err := cfg.OnInit(ctx, pc)
		if err != nil {
			return nil, err
		}
		if out != nil {
			logger.Debug("resolved by init hook")
			return out.finalReply()
		}
	}

	if cfg.OnPoll == nil {
		return initReply, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, c.abortCleanup(ctx, pc, err)
		}

		out, err := cfg.OnPoll(ctx, pc)
		if err != nil {
			// hook failures propagate verbatim; abort cleanup runs only
			// for cancellation
			return nil, err
		}
		if out != nil {
			reply, err := out.finalReply()
			if err != nil {
				return nil, err
			}
			pc.LastReply = reply
			logger.Debug("polling completed", "attempts", pc.Retries+1)
			return reply, nil
		}

		pc.Retries++
		logger.Debug("poll attempt not done, waiting", "retries", pc.Retries, "interval", cfg.Interval.String())

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, c.abortCleanup(ctx, pc, ctx.Err())
		}
	}
}

// effectiveConfig merges the per-call polling block over the client's
// defaults. The second return value reports whether the polling path applies
// at all: it does when the call supplies a Polling block or the client was
// built with defaults.
func (c *Client) effectiveConfig(perCall *PollConfig) (PollConfig, bool) {
	if perCall == nil {
		return c.defaults, c.hasDefaults
	}
	return c.defaults.merge(*perCall), true
}

// perform issues one transport call and converts the result.
func (c *Client) perform(ctx context.Context, req Request) (*Reply, error) {
	resp, err := c.transport.Do(ctx, transport.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: req.Headers,
		Body:    req.Body,
		Timeout: req.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Reply{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// abortCleanup runs the cleanup path for a cancelled invocation and returns
// the error the caller should observe. OnAbort runs only when an initial
// reply exists; its failure supersedes the AbortError. The hook receives a
// context derived with WithoutCancel so cleanup calls can still be made.
func (c *Client) abortCleanup(ctx context.Context, pc *Context, cause error) error {
	if pc != nil && pc.Config.OnAbort != nil && pc.InitReply != nil {
		if err := pc.Config.OnAbort(context.WithoutCancel(ctx), pc); err != nil {
			return err
		}
	}
	return &AbortError{Cause: cause}
}
