package credentials

// detectOpenCode follows the top-level "model" reference ("key/model") into
// provider.<key>.options. Without a reference, a config declaring exactly one
// provider is read from that provider.
func detectOpenCode(configPath string) (Live, error) {
	doc, err := readJSON5(configPath)
	if err != nil {
		return Live{}, err
	}

	key, model := splitModelRef(str(doc["model"]))
	if key == "" {
		providers, _ := doc["provider"].(map[string]any)
		if len(providers) != 1 {
			return Live{}, nil
		}
		for k := range providers {
			key = k
		}
	}

	return Live{
		Key:     key,
		BaseURL: str(dig(doc, "provider", key, "options", "baseURL")),
		APIKey:  str(dig(doc, "provider", key, "options", "apiKey")),
		Model:   model,
	}, nil
}
