package config

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/jpalmerr/pollfetch"
)

// statusURLKey is the invocation-context key under which the resolved status
// URL is passed from the init hook to the polling hook.
const statusURLKey = "status_url"

// BuildRequest converts a parsed configuration into an SDK [pollfetch.Request]
// bound to the given client.
//
// For configurations with a polling block, the built request carries:
//   - an OnInit hook that resolves the status URL (rendering the template
//     against the initial JSON reply when one is configured) and attaches it
//     to the invocation context
//   - an OnPoll hook that fetches the status URL on each attempt and applies
//     the done_when checker
func BuildRequest(cfg *Config, client *pollfetch.Client) (pollfetch.Request, error) {
	req := pollfetch.Request{
		URL:     cfg.URL,
		Method:  cfg.Method,
		Headers: cfg.Headers,
		Timeout: cfg.Timeout.Duration(),
	}
	if cfg.Body != "" {
		req.Body = []byte(cfg.Body)
	}

	if cfg.Polling == nil {
		return req, nil
	}

	check, err := buildChecker(cfg.Polling.DoneWhen)
	if err != nil {
		return pollfetch.Request{}, err
	}

	onInit, err := buildStatusURLHook(cfg.Polling)
	if err != nil {
		return pollfetch.Request{}, err
	}

	req.Polling = &pollfetch.PollConfig{
		Interval: cfg.Polling.Interval.Duration(),
		OnInit:   onInit,
		OnPoll: client.CheckFunc(func(pc *pollfetch.Context) (string, error) {
			url, ok := pc.Value(statusURLKey)
			if !ok {
				return "", fmt.Errorf("status URL was not resolved by the init hook")
			}
			return url.(string), nil
		}, check),
	}

	return req, nil
}

// buildStatusURLHook returns the OnInit hook resolving the status URL.
func buildStatusURLHook(pc *PollingConfig) (pollfetch.PollHook, error) {
	if pc.StatusURL != "" {
		fixed := pc.StatusURL
		return func(ctx context.Context, inv *pollfetch.Context) (*pollfetch.Outcome, error) {
			inv.Set(statusURLKey, fixed)
			return nil, nil
		}, nil
	}

	tmpl, err := template.New("status_url").Option("missingkey=error").Parse(pc.StatusURLTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid status_url_template: %w", err)
	}

	return func(ctx context.Context, inv *pollfetch.Context) (*pollfetch.Outcome, error) {
		var fields map[string]any
		if err := inv.InitReply.JSON(&fields); err != nil {
			return nil, fmt.Errorf("status_url_template needs a JSON initial reply: %w", err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, fields); err != nil {
			return nil, fmt.Errorf("failed to render status_url_template: %w", err)
		}

		inv.Set(statusURLKey, buf.String())
		return nil, nil
	}, nil
}

// buildChecker converts a CheckerConfig to an SDK checker.
func buildChecker(cc CheckerConfig) (pollfetch.Checker, error) {
	switch cc.Type {
	case "", "http":
		return pollfetch.StatusOK(), nil
	case "json":
		return pollfetch.JSONFieldEquals(cc.Path, cc.Values...), nil
	case "contains":
		return pollfetch.BodyContains(cc.Text), nil
	case "regex":
		check, err := pollfetch.BodyMatches(cc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid done_when pattern: %w", err)
		}
		return check, nil
	default:
		return nil, fmt.Errorf("unknown checker type %q", cc.Type)
	}
}
