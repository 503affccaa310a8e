package writer

import (
	"fmt"

	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const openClawAPI = "openai-completions"

// OpenClaw writes ~/.openclaw/openclaw.json (JSON5 accepted on input).
type OpenClaw struct {
	configPath string
	committer
}

func NewOpenClaw(configPath string) *OpenClaw {
	return &OpenClaw{configPath: configPath}
}

func (o *OpenClaw) Tool() tool.Tool { return tool.OpenClaw }

func (o *OpenClaw) Paths() []string { return []string{o.configPath} }

func (o *OpenClaw) Write(p provider.Provider) error {
	doc, err := readJSONObject(o.configPath, true)
	if err != nil {
		return err
	}
	conflict := func(err error) error { return &ParseError{Path: o.configPath, Err: err} }

	key := ProviderKey(p)

	models, err := table(doc, "models")
	if err != nil {
		return conflict(err)
	}
	setDefault(models, "mode", "merge")

	entry, err := tablePath(models, "providers", key)
	if err != nil {
		return conflict(err)
	}
	entry["baseUrl"] = p.BaseURL
	entry["apiKey"] = p.APIKey
	entry["api"] = openClawAPI

	if p.Model != "" {
		if err := ensureModelListed(entry, p.Model); err != nil {
			return conflict(err)
		}
		primary, err := tablePath(doc, "agents", "defaults", "model")
		if err != nil {
			return conflict(err)
		}
		primary["primary"] = key + "/" + p.Model
	}

	out, err := encodeJSON(doc)
	if err != nil {
		return err
	}
	return o.commit(pendingWrite{path: o.configPath, content: out})
}

// ensureModelListed appends {id, name} to entry.models unless a model with
// that id is already present.
func ensureModelListed(entry object, model string) error {
	raw, ok := entry["models"]
	if !ok || raw == nil {
		entry["models"] = []any{object{"id": model, "name": model}}
		return nil
	}

	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("key %q holds %T, expected an array", "models", raw)
	}
	for _, item := range list {
		if m, ok := item.(object); ok && m["id"] == model {
			return nil
		}
	}
	entry["models"] = append(list, object{"id": model, "name": model})
	return nil
}
