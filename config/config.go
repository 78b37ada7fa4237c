// Package config provides YAML configuration parsing for the pollfetch CLI.
//
// This package enables running one-off polling calls from a configuration
// file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	url: https://api.example.com/convert
//	method: POST
//	body: '{"file": "report.pdf"}'
//	headers:
//	  Authorization: Bearer ${API_TOKEN}
//
//	polling:
//	  interval: 2s
//	  max_wait: 5m
//	  status_url_template: "https://api.example.com/tasks/{{.id}}"
//	  done_when: json:status=completed
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minInterval is the minimum allowed polling interval.
// This prevents accidental DoS of status endpoints with overly aggressive
// polling.
const minInterval = 100 * time.Millisecond

// defaultInterval is applied when the polling block omits an interval.
const defaultInterval = 2 * time.Second

// Config is the root configuration structure for a pollfetch call.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// URL is the target of the initial request.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Method is the HTTP method for the initial request. Defaults to GET.
	Method string `yaml:"method"`

	// Headers are custom HTTP headers sent with every request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// Body is the initial request body.
	// Supports environment variable substitution.
	Body string `yaml:"body"`

	// Timeout is the per-request timeout. Zero means no per-request timeout.
	Timeout Duration `yaml:"timeout"`

	// Polling enables the polling cycle. When absent, the call is a plain
	// pass-through request.
	Polling *PollingConfig `yaml:"polling"`
}

// PollingConfig configures the polling cycle of a call.
type PollingConfig struct {
	// Interval is the delay between polling attempts.
	// Accepts duration strings like "2s", "500ms". Defaults to 2s.
	Interval Duration `yaml:"interval"`

	// MaxWait bounds the whole invocation; the call is cancelled when it
	// elapses. Zero means no overall deadline.
	MaxWait Duration `yaml:"max_wait"`

	// StatusURL is a fixed status endpoint fetched on every attempt.
	// Supports environment variable substitution.
	StatusURL string `yaml:"status_url"`

	// StatusURLTemplate is a Go template for the status endpoint, rendered
	// with the top-level fields of the initial JSON reply. For a reply
	// {"id": "task-7"} the template "https://api.example.com/tasks/{{.id}}"
	// yields the per-task status URL. Exactly one of StatusURL and
	// StatusURLTemplate must be set.
	StatusURLTemplate string `yaml:"status_url_template"`

	// DoneWhen determines when the invocation is finished.
	// Can be shorthand ("json:status=completed", "contains:done", "http")
	// or structured. Defaults to "http" (done on a 2xx status reply).
	DoneWhen CheckerConfig `yaml:"done_when"`
}

// CheckerConfig specifies how to decide completion from a status reply.
//
// It supports two formats in YAML:
//
// Shorthand string:
//
//	done_when: http
//	done_when: json:status=completed
//	done_when: json:data.state=done,failed
//	done_when: contains:finished
//	done_when: regex:"state":\s*"complete"
//
// Structured object:
//
//	done_when:
//	  type: json
//	  path: data.state
//	  values: [done, failed]
type CheckerConfig struct {
	// Type is the checker type: "http", "json", "contains", "regex".
	Type string

	// Path is the JSON field path (for type: json).
	Path string

	// Values are the field values that mean "done" (for type: json).
	Values []string

	// Text is the substring to search for (for type: contains).
	Text string

	// Pattern is the regular expression (for type: regex).
	Pattern string
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler for CheckerConfig.
func (c *CheckerConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		return c.parseShorthand(s)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			Type    string   `yaml:"type"`
			Path    string   `yaml:"path"`
			Values  []string `yaml:"values"`
			Text    string   `yaml:"text"`
			Pattern string   `yaml:"pattern"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		c.Type = raw.Type
		c.Path = raw.Path
		c.Values = raw.Values
		c.Text = raw.Text
		c.Pattern = raw.Pattern
		return nil
	}

	return fmt.Errorf("done_when must be a string or object, got %v", node.Kind)
}

// parseShorthand parses done_when shorthand syntax.
//
// Supported formats:
//   - "http" → done on a 2xx status reply
//   - "json:path=value[,value...]" → done when the JSON field equals a value
//   - "contains:text" → done when the body contains text
//   - "regex:pattern" → done when the body matches pattern
func (c *CheckerConfig) parseShorthand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if idx := strings.Index(s, ":"); idx != -1 {
		c.Type = s[:idx]
		value := s[idx+1:]

		switch c.Type {
		case "json":
			eq := strings.Index(value, "=")
			if eq == -1 {
				return fmt.Errorf("json checker needs path=value, got %q", value)
			}
			c.Path = value[:eq]
			c.Values = strings.Split(value[eq+1:], ",")
		case "contains":
			c.Text = value
		case "regex":
			c.Pattern = value
		default:
			return fmt.Errorf("unknown checker type %q", c.Type)
		}
		return nil
	}

	switch s {
	case "http":
		c.Type = s
	default:
		return fmt.Errorf("unknown checker %q (expected 'http', 'json:path=value', 'contains:text', or 'regex:pattern')", s)
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in URL, Body, Header values, and the
// status URL fields. The polling interval defaults to 2s.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var err error
	if cfg.URL, err = expandEnvVars(cfg.URL); err != nil {
		return nil, err
	}
	if cfg.Body, err = expandEnvVars(cfg.Body); err != nil {
		return nil, err
	}
	for k, v := range cfg.Headers {
		if cfg.Headers[k], err = expandEnvVars(v); err != nil {
			return nil, err
		}
	}
	if cfg.Polling != nil {
		if cfg.Polling.StatusURL, err = expandEnvVars(cfg.Polling.StatusURL); err != nil {
			return nil, err
		}
		if cfg.Polling.StatusURLTemplate, err = expandEnvVars(cfg.Polling.StatusURLTemplate); err != nil {
			return nil, err
		}
		if cfg.Polling.Interval == 0 {
			cfg.Polling.Interval = Duration(defaultInterval)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the parsed configuration for consistency.
func (c *Config) validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(c.URL)
	if err != nil || parsed.Scheme == "" {
		return fmt.Errorf("url %q must be a valid URL with a scheme", c.URL)
	}

	if c.Polling == nil {
		return nil
	}

	if c.Polling.Interval.Duration() < minInterval {
		return fmt.Errorf("polling interval must be at least %s, got %s",
			minInterval, c.Polling.Interval.Duration())
	}

	hasURL := c.Polling.StatusURL != ""
	hasTemplate := c.Polling.StatusURLTemplate != ""
	if hasURL == hasTemplate {
		return errors.New("polling needs exactly one of status_url and status_url_template")
	}

	switch c.Polling.DoneWhen.Type {
	case "", "http":
	case "json":
		if c.Polling.DoneWhen.Path == "" || len(c.Polling.DoneWhen.Values) == 0 {
			return errors.New("json checker needs a path and at least one value")
		}
	case "contains":
		if c.Polling.DoneWhen.Text == "" {
			return errors.New("contains checker needs text")
		}
	case "regex":
		if c.Polling.DoneWhen.Pattern == "" {
			return errors.New("regex checker needs a pattern")
		}
	default:
		return fmt.Errorf("unknown checker type %q", c.Polling.DoneWhen.Type)
	}

	return nil
}
