// Package pollfetch wraps a single HTTP request with an optional,
// caller-defined polling cycle.
//
// pollfetch is designed as an SDK-first library for the common "submit a
// task, poll until it completes" interaction: issue one initial request,
// optionally inspect or transform it first, optionally short-circuit on the
// initial reply, and otherwise repeatedly invoke a caller-supplied check
// until it signals completion, the context is cancelled, or an error occurs.
// It knows nothing about any specific task-status protocol; the hooks decide
// what "done" means.
//
// # Quick Start
//
// Submit a job and poll its status endpoint until it reports completion:
//
//	client, _ := pollfetch.New()
//
//	reply, err := client.Do(ctx, pollfetch.Request{
//	    URL:    "https://api.example.com/convert",
//	    Method: http.MethodPost,
//	    Body:   payload,
//	    Polling: &pollfetch.PollConfig{
//	        Interval: 2 * time.Second,
//	        OnInit: func(ctx context.Context, pc *pollfetch.Context) (*pollfetch.Outcome, error) {
//	            var task struct{ ID string `json:"id"` }
//	            if err := pc.InitReply.JSON(&task); err != nil {
//	                return nil, err
//	            }
//	            pc.Set("task_id", task.ID)
//	            return nil, nil // proceed to polling
//	        },
//	        OnPoll: func(ctx context.Context, pc *pollfetch.Context) (*pollfetch.Outcome, error) {
//	            id, _ := pc.Value("task_id")
//	            return checkStatus(ctx, id.(string))
//	        },
//	    },
//	})
//
// Without a Polling block (and without factory defaults), Do is a plain
// pass-through call to the underlying transport.
//
// # Hooks
//
// All hooks are optional and run strictly in order for one invocation:
// OnRequest, the transport call, OnInit, then (OnPoll, wait) repeated.
// OnInit and OnPoll return an [Outcome]: [Done] hands back a ready-made
// reply verbatim, [Resolve] boxes any value into a synthetic 200 JSON reply,
// and a nil Outcome means "not finished, keep going". Hook errors propagate
// verbatim to the caller; nothing is retried or wrapped.
//
// # Cancellation
//
// Cancellation is cooperative via the standard context. It is observed
// before the initial request, at the top of every polling iteration, and
// during the inter-poll wait, never while a hook or the transport call is
// in flight. A cancelled invocation fails with an [AbortError] after running
// the OnAbort cleanup hook (if one is configured and an initial reply
// exists). Use [IsAborted] to detect this case.
//
// # Preconfigured clients
//
// [Client.With] returns a derived client carrying default polling
// configuration, merged field by field under any per-call Polling block.
// With calls compose, so shared defaults can be layered:
//
//	base := client.With(pollfetch.PollConfig{Interval: 5 * time.Second})
//	jobs := base.With(pollfetch.PollConfig{OnPoll: checkJobStatus})
//
// # Architecture
//
// The package consists of the core control loop in this package plus:
//
//   - internal/transport: pooled HTTP client with per-request timeouts
//   - config: YAML configuration for the pollfetch CLI
//   - cmd/pollfetch: standalone CLI for one-off polling calls
//
// The internal packages are not part of the public API and may change
// without notice.
package pollfetch
