package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script plugin and returns it.
func scriptPlugin(t *testing.T, name, script string, actions ...string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()
	scriptPath := filepath.Join(tmpDir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    actions,
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := scriptPlugin(t, "hello", `cat <<'EOF'
{"success":true,"data":{"message":"hello world"}}
EOF
`, "keystroke")

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{
		Action:  "keystroke",
		Control: "evaluate",
		Config:  json.RawMessage(`{"key":"value"}`),
		Params:  json.RawMessage(`{"key":"="}`),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]any
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := scriptPlugin(t, "echo", `INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`, "keystroke")

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{
		Action:  "keystroke",
		Control: "clear",
		Config:  json.RawMessage(`{}`),
		Params:  json.RawMessage(`{"key":"c"}`),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	if data.Received.Action != "keystroke" {
		t.Errorf("expected action 'keystroke', got %q", data.Received.Action)
	}
	if data.Received.Control != "clear" {
		t.Errorf("expected control 'clear', got %q", data.Received.Control)
	}
	if string(data.Received.Params) != `{"key":"c"}` {
		t.Errorf("unexpected params %s", data.Received.Params)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := scriptPlugin(t, "slow", "sleep 10\necho '{\"success\":true}'\n")

	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), plugin, &Request{Action: "slow"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout-related error, got: %v", err)
	}
}

func TestExecutor_Execute_Failures(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		wantErr     bool
		wantMessage string
	}{
		{
			name:        "error response",
			script:      `echo '{"success":false,"error":"something went wrong"}'` + "\n",
			wantMessage: "something went wrong",
		},
		{
			name:    "invalid json",
			script:  "echo 'not valid json'\n",
			wantErr: true,
		},
		{
			name:    "non-zero exit",
			script:  "echo 'Error: something failed' >&2\nexit 1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin := scriptPlugin(t, "failing", tt.script)

			response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "run"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() failed: %v", err)
			}
			if response.Success {
				t.Error("expected success=false, got true")
			}
			if response.Error != tt.wantMessage {
				t.Errorf("expected error %q, got %q", tt.wantMessage, response.Error)
			}
		})
	}
}

func TestExecutor_Execute_UnsupportedAction(t *testing.T) {
	plugin := &Plugin{
		Manifest: Manifest{
			Name:    "keyboard",
			Actions: []string{"keystroke"},
		},
		Path:       t.TempDir(),
		Executable: "/nonexistent",
	}

	_, err := NewExecutor(time.Second).Execute(context.Background(), plugin, &Request{Action: "volume-up"})
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("expected ErrUnsupportedAction, got %v", err)
	}
}

func TestNewExecutor(t *testing.T) {
	executor := NewExecutor(3 * time.Second)
	if executor.Timeout() != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", executor.Timeout())
	}
}

func TestManifest_Supports(t *testing.T) {
	m := Manifest{Actions: []string{"keystroke", "shortcut"}}
	if !m.Supports("shortcut") {
		t.Error("expected shortcut to be supported")
	}
	if m.Supports("click") {
		t.Error("expected click to be unsupported")
	}
}
