package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalPassThrough(t *testing.T) {
	cfg, err := Parse([]byte(`url: https://api.example.com/health`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.URL != "https://api.example.com/health" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Polling != nil {
		t.Error("Polling should be nil for a pass-through config")
	}
}

func TestParse_FullPollingConfig(t *testing.T) {
	yaml := `
url: https://api.example.com/convert
method: POST
body: '{"file": "report.pdf"}'
headers:
  X-Team: platform
timeout: 10s
polling:
  interval: 500ms
  max_wait: 2m
  status_url_template: "https://api.example.com/tasks/{{.id}}"
  done_when: json:status=completed,failed
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Method != "POST" {
		t.Errorf("Method = %q, want POST", cfg.Method)
	}
	if cfg.Timeout.Duration() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout.Duration())
	}
	if cfg.Polling.Interval.Duration() != 500*time.Millisecond {
		t.Errorf("Interval = %v, want 500ms", cfg.Polling.Interval.Duration())
	}
	if cfg.Polling.MaxWait.Duration() != 2*time.Minute {
		t.Errorf("MaxWait = %v, want 2m", cfg.Polling.MaxWait.Duration())
	}

	dw := cfg.Polling.DoneWhen
	if dw.Type != "json" || dw.Path != "status" {
		t.Errorf("DoneWhen = %+v, want json checker on status", dw)
	}
	if len(dw.Values) != 2 || dw.Values[0] != "completed" || dw.Values[1] != "failed" {
		t.Errorf("DoneWhen values = %v, want [completed failed]", dw.Values)
	}
}

func TestParse_DefaultInterval(t *testing.T) {
	yaml := `
url: https://api.example.com/convert
polling:
  status_url: https://api.example.com/status
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Polling.Interval.Duration() != defaultInterval {
		t.Errorf("Interval = %v, want default %v", cfg.Polling.Interval.Duration(), defaultInterval)
	}
}

func TestParse_DoneWhenFormats(t *testing.T) {
	tests := []struct {
		name     string
		doneWhen string
		wantType string
		wantErr  bool
	}{
		{"http shorthand", `done_when: http`, "http", false},
		{"contains shorthand", `done_when: contains:finished`, "contains", false},
		{"regex shorthand", `done_when: regex:state.*complete`, "regex", false},
		{"structured", "done_when:\n    type: json\n    path: data.state\n    values: [done]", "json", false},
		{"unknown type", `done_when: poll:x`, "", true},
		{"json without value", `done_when: json:status`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := "url: https://api.example.com\npolling:\n  status_url: https://api.example.com/s\n  " + tt.doneWhen + "\n"
			cfg, err := Parse([]byte(yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.Polling.DoneWhen.Type != tt.wantType {
				t.Errorf("checker type = %q, want %q", cfg.Polling.DoneWhen.Type, tt.wantType)
			}
		})
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("POLLFETCH_TEST_TOKEN", "secret123")
	t.Setenv("POLLFETCH_TEST_HOST", "api.example.com")

	yaml := `
url: https://${POLLFETCH_TEST_HOST}/convert
headers:
  Authorization: Bearer ${POLLFETCH_TEST_TOKEN}
  X-Region: ${POLLFETCH_TEST_REGION:-eu-west-1}
polling:
  status_url: https://${POLLFETCH_TEST_HOST}/status
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.URL != "https://api.example.com/convert" {
		t.Errorf("URL = %q, env var not expanded", cfg.URL)
	}
	if cfg.Headers["Authorization"] != "Bearer secret123" {
		t.Errorf("Authorization = %q, env var not expanded", cfg.Headers["Authorization"])
	}
	if cfg.Headers["X-Region"] != "eu-west-1" {
		t.Errorf("X-Region = %q, default not applied", cfg.Headers["X-Region"])
	}
	if cfg.Polling.StatusURL != "https://api.example.com/status" {
		t.Errorf("StatusURL = %q, env var not expanded", cfg.Polling.StatusURL)
	}
}

func TestParse_EnvMissing(t *testing.T) {
	_, err := Parse([]byte(`url: https://${POLLFETCH_TEST_DEFINITELY_UNSET}/x`))
	if err == nil || !strings.Contains(err.Error(), "POLLFETCH_TEST_DEFINITELY_UNSET") {
		t.Errorf("Parse() error = %v, want missing env var error", err)
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing url", `method: GET`},
		{"url without scheme", `url: api.example.com`},
		{
			"interval too small",
			"url: https://api.example.com\npolling:\n  interval: 10ms\n  status_url: https://api.example.com/s\n",
		},
		{
			"no status url",
			"url: https://api.example.com\npolling:\n  interval: 1s\n",
		},
		{
			"both status url forms",
			"url: https://api.example.com\npolling:\n  status_url: https://a/s\n  status_url_template: \"https://a/{{.id}}\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() expected validation error, got nil")
			}
		})
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("url: https://api.example.com\ntimeout: fast\n"))
	if err == nil {
		t.Error("Parse() expected error for invalid duration, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/pollfetch.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}
