package writer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const (
	codexDefaultReasoningEffort = "high"
	codexAuthKey                = "OPENAI_API_KEY"
)

// codexDeprecatedFeatures are [features] flags Codex removed upstream.
var codexDeprecatedFeatures = []string{
	"experimental_use_exec_command_tool",
	"experimental_use_unified_exec_tool",
	"experimental_use_rmcp_client",
	"include_plan_tool",
	"include_apply_patch_tool",
}

// codexDeprecatedTopLevel are legacy top-level keys superseded by [features].
var codexDeprecatedTopLevel = []string{
	"experimental_use_freeform_apply_patch",
}

// Codex writes ~/.codex/config.toml and ~/.codex/auth.json.
type Codex struct {
	configPath string
	authPath   string
	committer
}

func NewCodex(configPath, authPath string) *Codex {
	return &Codex{configPath: configPath, authPath: authPath}
}

func (c *Codex) Tool() tool.Tool { return tool.Codex }

func (c *Codex) Paths() []string { return []string{c.configPath, c.authPath} }

func (c *Codex) Write(p provider.Provider) error {
	configOut, err := c.renderConfig(p)
	if err != nil {
		return err
	}
	authOut, err := c.renderAuth(p)
	if err != nil {
		return err
	}

	return c.commit(
		pendingWrite{path: c.configPath, content: configOut},
		pendingWrite{path: c.authPath, content: authOut, secondary: true},
	)
}

func (c *Codex) renderConfig(p provider.Provider) ([]byte, error) {
	doc := object{}
	data, exists, err := fsutil.ReadIfExists(c.configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, &ParseError{Path: c.configPath, Err: err}
		}
	}

	key := ProviderKey(p)
	conflict := func(err error) error { return &ParseError{Path: c.configPath, Err: err} }

	// managed
	doc["model_provider"] = key
	entry, err := tablePath(doc, "model_providers", key)
	if err != nil {
		return nil, conflict(err)
	}
	entry["name"] = p.Name
	entry["base_url"] = p.BaseURL
	entry["wire_api"] = "responses"
	entry["requires_openai_auth"] = true
	if p.Model != "" {
		doc["model"] = p.Model
	}

	// defaulted
	setDefault(doc, "model_reasoning_effort", codexDefaultReasoningEffort)
	setDefault(doc, "disable_response_storage", true)

	// deprecated
	deleteKeys(doc, codexDeprecatedTopLevel...)
	if v, ok := doc["features"]; ok {
		features, ok := v.(object)
		if !ok {
			return nil, conflict(fmt.Errorf("key %q holds %T, expected a table/object", "features", v))
		}
		deleteKeys(features, codexDeprecatedFeatures...)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.configPath, err)
	}
	return buf.Bytes(), nil
}

// renderAuth sets OPENAI_API_KEY and keeps every other entry (OAuth tokens,
// account metadata) byte-for-byte.
func (c *Codex) renderAuth(p provider.Provider) ([]byte, error) {
	auth := map[string]json.RawMessage{}
	data, exists, err := fsutil.ReadIfExists(c.authPath)
	if err != nil {
		return nil, err
	}
	if exists && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &auth); err != nil {
			return nil, &ParseError{Path: c.authPath, Err: err}
		}
		if auth == nil {
			auth = map[string]json.RawMessage{}
		}
	}

	keyJSON, err := json.Marshal(p.APIKey)
	if err != nil {
		return nil, err
	}
	auth[codexAuthKey] = keyJSON

	out, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.authPath, err)
	}
	return append(out, '\n'), nil
}
