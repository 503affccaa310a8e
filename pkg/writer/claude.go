package writer

import (
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

// Claude writes ~/.claude/settings.json.
type Claude struct {
	settingsPath string
	committer
}

func NewClaude(settingsPath string) *Claude {
	return &Claude{settingsPath: settingsPath}
}

func (c *Claude) Tool() tool.Tool { return tool.Claude }

func (c *Claude) Paths() []string { return []string{c.settingsPath} }

func (c *Claude) Write(p provider.Provider) error {
	doc, err := readJSONObject(c.settingsPath, false)
	if err != nil {
		return err
	}

	env, err := table(doc, "env")
	if err != nil {
		return &ParseError{Path: c.settingsPath, Err: err}
	}

	// managed
	env["ANTHROPIC_AUTH_TOKEN"] = p.APIKey
	env["ANTHROPIC_BASE_URL"] = p.BaseURL
	if p.Model != "" {
		env["ANTHROPIC_MODEL"] = p.Model
	}

	// defaulted
	setDefault(env, "CLAUDE_CODE_MAX_OUTPUT_TOKENS", "32000")
	setDefault(env, "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC", "1")
	perms, err := table(doc, "permissions")
	if err != nil {
		return &ParseError{Path: c.settingsPath, Err: err}
	}
	setDefault(perms, "allow", []any{})
	setDefault(perms, "deny", []any{})

	// deprecated: superseded by ANTHROPIC_DEFAULT_HAIKU_MODEL upstream
	deleteKeys(env, "ANTHROPIC_SMALL_FAST_MODEL")

	out, err := encodeJSON(doc)
	if err != nil {
		return err
	}
	return c.commit(pendingWrite{path: c.settingsPath, content: out})
}
