package writer

import (
	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

// Entry bundles everything switchboard knows about one tool.
type Entry struct {
	Tool    tool.Tool
	Writer  Writer
	Presets PresetSource
	Paths   PathResolver
}

// Registry resolves per-tool entries. It is built once from a Paths value;
// writers never consult the process environment for locations.
type Registry struct {
	entries map[tool.Tool]Entry
}

// NewRegistry builds an entry for every tool in tool.All().
func NewRegistry(paths dotdir.Paths) *Registry {
	r := &Registry{entries: make(map[tool.Tool]Entry)}
	for _, t := range tool.All() {
		w := newWriter(t, paths)
		r.entries[t] = Entry{
			Tool:    t,
			Writer:  w,
			Presets: builtinPresets(t),
			Paths:   w,
		}
	}
	return r
}

// newWriter must handle every tool constant.
func newWriter(t tool.Tool, paths dotdir.Paths) Writer {
	switch t {
	case tool.Codex:
		return NewCodex(paths.HomePath(".codex", "config.toml"), paths.HomePath(".codex", "auth.json"))
	case tool.Claude:
		return NewClaude(paths.HomePath(".claude", "settings.json"))
	case tool.Gemini:
		return NewGemini(paths.HomePath(".gemini", ".env"), paths.HomePath(".gemini", "settings.json"))
	case tool.OpenCode:
		return NewOpenCode(paths.HomePath(".config", "opencode", "opencode.json"))
	case tool.OpenClaw:
		return NewOpenClaw(paths.HomePath(".openclaw", "openclaw.json"))
	default:
		panic("writer: no writer for tool " + t.String())
	}
}

// Entry returns the registry entry for t.
func (r *Registry) Entry(t tool.Tool) (Entry, error) {
	e, ok := r.entries[t]
	if !ok {
		return Entry{}, &tool.UnsupportedError{Name: t.String()}
	}
	return e, nil
}

// Writer returns the writer for t.
func (r *Registry) Writer(t tool.Tool) (Writer, error) {
	e, err := r.Entry(t)
	if err != nil {
		return nil, err
	}
	return e.Writer, nil
}

// Presets returns the built-in presets for t.
func (r *Registry) Presets(t tool.Tool) ([]provider.PresetTemplate, error) {
	e, err := r.Entry(t)
	if err != nil {
		return nil, err
	}
	return e.Presets.Presets(), nil
}

// Paths returns the native config files of t.
func (r *Registry) Paths(t tool.Tool) ([]string, error) {
	e, err := r.Entry(t)
	if err != nil {
		return nil, err
	}
	return e.Paths.Paths(), nil
}

// Replace swaps the writer for t. It exists for callers that wrap writers
// (for example to add logging) and for tests.
func (r *Registry) Replace(t tool.Tool, w Writer) {
	e := r.entries[t]
	e.Tool = t
	e.Writer = w
	e.Paths = w
	if e.Presets == nil {
		e.Presets = builtinPresets(t)
	}
	r.entries[t] = e
}
