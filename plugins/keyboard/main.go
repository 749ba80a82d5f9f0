// Package main provides a keyboard plugin.
// It sends keystrokes and shortcuts to the focused window, which is how the
// calculator receives control actions such as "evaluate".
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-vgo/robotgo"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Control string          `json:"control"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams defines parameters for keystroke and shortcut actions.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// modifierMap maps user-friendly modifier names to robotgo key names.
var modifierMap = map[string]string{
	"command": "cmd",
	"cmd":     "cmd",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

// keyAliases maps common key spellings to robotgo key names.
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
}

// keyTap sends the keystroke; replaced in tests.
var keyTap = robotgo.KeyTap

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(errorResponse(fmt.Sprintf("failed to decode request: %v", err)))
		return
	}
	writeResponse(handle(req))
}

// handle runs req and reports the outcome.
func handle(req Request) Response {
	switch req.Action {
	case "keystroke", "shortcut":
		p, err := parseKeystroke(req.Params)
		if err != nil {
			return errorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		}
		key, mods := resolveKeystroke(p)
		if err := tap(key, mods); err != nil {
			return errorResponse(fmt.Sprintf("key %q failed: %v", key, err))
		}
		return Response{Success: true}
	default:
		return errorResponse(fmt.Sprintf("unknown action: %s", req.Action))
	}
}

// parseKeystroke decodes and validates keystroke parameters.
func parseKeystroke(params json.RawMessage) (KeystrokeParams, error) {
	var p KeystrokeParams
	if len(params) == 0 {
		return p, fmt.Errorf("key is required")
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return p, fmt.Errorf("failed to parse params: %w", err)
	}
	if p.Key == "" {
		return p, fmt.Errorf("key is required")
	}
	return p, nil
}

// resolveKeystroke converts a key and modifiers to robotgo names.
// Unknown modifiers are dropped.
func resolveKeystroke(p KeystrokeParams) (string, []string) {
	key := p.Key
	if alias, ok := keyAliases[strings.ToLower(key)]; ok {
		key = alias
	}

	var mods []string
	for _, mod := range p.Modifiers {
		if m, ok := modifierMap[strings.ToLower(mod)]; ok {
			mods = append(mods, m)
		}
	}
	return key, mods
}

// tap presses key with the given modifiers held.
func tap(key string, mods []string) error {
	args := make([]interface{}, len(mods))
	for i, m := range mods {
		args[i] = m
	}
	return keyTap(key, args...)
}

func errorResponse(msg string) Response {
	return Response{Success: false, Error: msg}
}

// writeResponse writes resp to stdout.
func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
