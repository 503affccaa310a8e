package credentials

import (
	"strings"

	"github.com/joho/godotenv"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

func detectGemini(envPath string) (Live, error) {
	data, exists, err := fsutil.ReadIfExists(envPath)
	if err != nil || !exists {
		return Live{}, err
	}

	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return Live{}, &writer.ParseError{Path: envPath, Err: err}
	}

	live := Live{
		BaseURL: strings.TrimSpace(env["GOOGLE_GEMINI_BASE_URL"]),
		APIKey:  strings.TrimSpace(env["GEMINI_API_KEY"]),
		Model:   strings.TrimSpace(env["GEMINI_MODEL"]),
	}
	if live.BaseURL == "" && live.APIKey != "" {
		live.BaseURL = defaultGeminiBaseURL
	}
	return live, nil
}
