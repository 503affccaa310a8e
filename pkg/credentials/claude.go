package credentials

const defaultAnthropicBaseURL = "https://api.anthropic.com"

// detectClaude reads the env block of settings.json. An explicit key with
// no base URL points at the official API.
func detectClaude(settingsPath string) (Live, error) {
	doc, err := readJSON5(settingsPath)
	if err != nil {
		return Live{}, err
	}

	live := Live{
		BaseURL: str(dig(doc, "env", "ANTHROPIC_BASE_URL")),
		APIKey:  str(dig(doc, "env", "ANTHROPIC_AUTH_TOKEN")),
		Model:   str(dig(doc, "env", "ANTHROPIC_MODEL")),
	}
	if live.APIKey == "" {
		live.APIKey = str(dig(doc, "env", "ANTHROPIC_API_KEY"))
	}
	if live.BaseURL == "" && live.APIKey != "" {
		live.BaseURL = defaultAnthropicBaseURL
	}
	return live, nil
}
