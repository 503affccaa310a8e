package credentials

import (
	"encoding/json"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

type codexConfig struct {
	Model          string `toml:"model"`
	ModelProvider  string `toml:"model_provider"`
	ModelProviders map[string]struct {
		BaseURL string `toml:"base_url"`
	} `toml:"model_providers"`
}

// detectCodex reads the active model_providers entry from config.toml and
// OPENAI_API_KEY from auth.json. A ChatGPT OAuth login without an API key is
// not importable.
func detectCodex(configPath, authPath string) (Live, error) {
	var live Live

	data, exists, err := fsutil.ReadIfExists(configPath)
	if err != nil {
		return Live{}, err
	}
	if exists {
		var cfg codexConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Live{}, &writer.ParseError{Path: configPath, Err: err}
		}
		live.Key = cfg.ModelProvider
		live.Model = cfg.Model
		if mp, ok := cfg.ModelProviders[cfg.ModelProvider]; ok {
			live.BaseURL = mp.BaseURL
		}
	}

	data, exists, err = fsutil.ReadIfExists(authPath)
	if err != nil {
		return Live{}, err
	}
	if exists {
		var auth struct {
			Key *string `json:"OPENAI_API_KEY"`
		}
		if err := json.Unmarshal(data, &auth); err != nil {
			return Live{}, &writer.ParseError{Path: authPath, Err: err}
		}
		if auth.Key != nil {
			live.APIKey = *auth.Key
		}
	}

	return live, nil
}
