package writer

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/papercomputeco/switchboard/pkg/provider"
)

// knownProviderKeys pins well-known hosts to a fixed config key so that the
// tool's own docs and model references keep working regardless of the
// display name the user chose.
var knownProviderKeys = map[string]string{
	"openrouter.ai":     "openrouter",
	"api.deepseek.com":  "deepseek",
	"api.moonshot.cn":   "moonshot",
	"api.moonshot.ai":   "moonshot",
	"open.bigmodel.cn":  "zhipuai",
	"api.anthropic.com": "anthropic",
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// ProviderKey returns the map key a provider is stored under in native
// config files such as [model_providers.<key>].
func ProviderKey(p provider.Provider) string {
	if u, err := url.Parse(p.BaseURL); err == nil {
		if key, ok := knownProviderKeys[strings.ToLower(u.Hostname())]; ok {
			return key
		}
	}

	key := nonKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(p.Name)), "_")
	key = strings.Trim(key, "_")
	if key == "" {
		return "custom"
	}
	return key
}
