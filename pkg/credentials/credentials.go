// Package credentials reads the provider a tool is currently configured with
// straight from its native config files, so an existing setup can be
// imported as a switchboard provider. Nothing is written.
package credentials

import (
	"bytes"
	"errors"
	"strings"

	"github.com/titanous/json5"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

// ErrNotConfigured is returned when a tool's native files hold no usable
// base URL and API key.
var ErrNotConfigured = errors.New("no provider configured")

// Live is the provider found in a tool's native config.
type Live struct {
	// Key is the tool-side provider key (e.g. "openrouter"), empty for
	// tools that have a single provider slot.
	Key     string
	BaseURL string
	APIKey  string
	Model   string
}

// Detect reads the live provider of t from the files registered for it in
// reg. Unparseable files yield a *writer.ParseError.
func Detect(reg *writer.Registry, t tool.Tool) (Live, error) {
	paths, err := reg.Paths(t)
	if err != nil {
		return Live{}, err
	}

	var live Live
	switch t {
	case tool.Codex:
		live, err = detectCodex(paths[0], paths[1])
	case tool.Claude:
		live, err = detectClaude(paths[0])
	case tool.Gemini:
		live, err = detectGemini(paths[0])
	case tool.OpenCode:
		live, err = detectOpenCode(paths[0])
	case tool.OpenClaw:
		live, err = detectOpenClaw(paths[0])
	default:
		return Live{}, &tool.UnsupportedError{Name: t.String()}
	}
	if err != nil {
		return Live{}, err
	}

	if live.BaseURL == "" || live.APIKey == "" {
		return Live{}, ErrNotConfigured
	}
	return live, nil
}

// readJSON5 decodes path as JSON5, which accepts plain JSON as well as the
// comments and trailing commas OpenCode and OpenClaw allow. A missing file
// yields nil.
func readJSON5(path string) (map[string]any, error) {
	data, exists, err := fsutil.ReadIfExists(path)
	if err != nil || !exists || len(bytes.TrimSpace(data)) == 0 {
		return nil, err
	}

	var doc map[string]any
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, &writer.ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// dig walks nested objects and returns the value at keys, or nil.
func dig(doc map[string]any, keys ...string) any {
	var cur any = doc
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// splitModelRef splits "provider/model" references used by OpenCode and
// OpenClaw. The model part may itself contain slashes.
func splitModelRef(ref string) (key, model string) {
	key, model, _ = strings.Cut(ref, "/")
	return key, model
}
