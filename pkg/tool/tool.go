// Package tool enumerates the AI CLI tools switchboard manages.
package tool

import (
	"strings"
)

// Tool identifies one supported AI CLI. The set is closed: every switch over
// a Tool in this module handles all of the constants below.
type Tool int

const (
	Codex Tool = iota + 1
	Claude
	Gemini
	OpenCode
	OpenClaw
)

var names = map[Tool]string{
	Codex:    "codex",
	Claude:   "claude",
	Gemini:   "gemini",
	OpenCode: "opencode",
	OpenClaw: "openclaw",
}

var displayNames = map[Tool]string{
	Codex:    "Codex",
	Claude:   "Claude Code",
	Gemini:   "Gemini CLI",
	OpenCode: "OpenCode",
	OpenClaw: "OpenClaw",
}

// aliases are extra spellings accepted by Parse.
var aliases = map[string]Tool{
	"claude-code": Claude,
	"claudecode":  Claude,
	"gemini-cli":  Gemini,
	"open-code":   OpenCode,
	"open-claw":   OpenClaw,
}

// All returns every supported tool in a stable order. The sync engine
// iterates tools in this order.
func All() []Tool {
	return []Tool{Codex, Claude, Gemini, OpenCode, OpenClaw}
}

// String returns the identifier used in file names and remote paths.
func (t Tool) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "unknown"
}

// DisplayName returns a human-friendly tool name.
func (t Tool) DisplayName() string {
	if n, ok := displayNames[t]; ok {
		return n
	}
	return t.String()
}

// Valid reports whether t is one of the supported tools.
func (t Tool) Valid() bool {
	_, ok := names[t]
	return ok
}

// Parse converts a user supplied name into a Tool.
func Parse(s string) (Tool, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t, n := range names {
		if n == key {
			return t, nil
		}
	}
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return 0, &UnsupportedError{Name: s}
}

// Names returns the identifiers of all tools, in All() order.
func Names() []string {
	all := All()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.String())
	}
	return out
}
