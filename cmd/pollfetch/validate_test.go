package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeValidateCmd runs the validate command with the given config path
// and returns captured stdout and any error.
func executeValidateCmd(t *testing.T, configPath string) (string, error) {
	t.Helper()

	// capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// execute via root command with validate subcommand
	rootCmd.SetArgs([]string{"validate", "-c", configPath})
	err := rootCmd.Execute()

	// restore stdout
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String(), err
}

func TestRunValidate_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "call.yaml")

	configContent := `
url: https://api.example.com/convert
method: POST
polling:
  interval: 2s
  max_wait: 5m
  status_url_template: "https://api.example.com/tasks/{{.id}}"
  done_when: json:status=completed
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	output, err := executeValidateCmd(t, configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"POST https://api.example.com/convert",
		"2s",
		"5m",
	}
	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q:\n%s", phrase, output)
		}
	}
}

func TestRunValidate_PassThroughConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "call.yaml")

	if err := os.WriteFile(configPath, []byte("url: https://api.example.com/health\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	output, err := executeValidateCmd(t, configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "pass-through") {
		t.Errorf("output should report a pass-through call:\n%s", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "call.yaml")

	// polling without a status URL is invalid
	configContent := `
url: https://api.example.com/convert
polling:
  interval: 2s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := executeValidateCmd(t, configPath); err == nil {
		t.Error("validate command expected error for invalid config, got nil")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	if _, err := executeValidateCmd(t, "/nonexistent/call.yaml"); err == nil {
		t.Error("validate command expected error for missing file, got nil")
	}
}
