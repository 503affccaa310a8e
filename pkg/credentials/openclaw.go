package credentials

// detectOpenClaw follows agents.defaults.model.primary ("key/model") into
// models.providers.<key>.
func detectOpenClaw(configPath string) (Live, error) {
	doc, err := readJSON5(configPath)
	if err != nil {
		return Live{}, err
	}

	key, model := splitModelRef(str(dig(doc, "agents", "defaults", "model", "primary")))
	if key == "" {
		return Live{}, nil
	}

	return Live{
		Key:     key,
		BaseURL: str(dig(doc, "models", "providers", key, "baseUrl")),
		APIKey:  str(dig(doc, "models", "providers", key, "apiKey")),
		Model:   model,
	}, nil
}
