package writer

import (
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const (
	openCodeSchema = "https://opencode.ai/config.json"
	openCodeNPM    = "@ai-sdk/openai-compatible"
)

// OpenCode writes ~/.config/opencode/opencode.json. The file may be JSONC;
// it is read leniently and written back as plain JSON.
type OpenCode struct {
	configPath string
	committer
}

func NewOpenCode(configPath string) *OpenCode {
	return &OpenCode{configPath: configPath}
}

func (o *OpenCode) Tool() tool.Tool { return tool.OpenCode }

func (o *OpenCode) Paths() []string { return []string{o.configPath} }

func (o *OpenCode) Write(p provider.Provider) error {
	doc, err := readJSONObject(o.configPath, true)
	if err != nil {
		return err
	}
	conflict := func(err error) error { return &ParseError{Path: o.configPath, Err: err} }

	key := ProviderKey(p)
	setDefault(doc, "$schema", openCodeSchema)

	entry, err := tablePath(doc, "provider", key)
	if err != nil {
		return conflict(err)
	}
	setDefault(entry, "npm", openCodeNPM)
	entry["name"] = p.Name

	opts, err := table(entry, "options")
	if err != nil {
		return conflict(err)
	}
	opts["baseURL"] = p.BaseURL
	opts["apiKey"] = p.APIKey

	if p.Model != "" {
		models, err := table(entry, "models")
		if err != nil {
			return conflict(err)
		}
		setDefault(models, p.Model, object{"name": p.Model})
		doc["model"] = key + "/" + p.Model
	}

	out, err := encodeJSON(doc)
	if err != nil {
		return err
	}
	return o.commit(pendingWrite{path: o.configPath, content: out})
}
