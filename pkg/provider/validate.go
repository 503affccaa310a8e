package provider

import (
	"net/url"
	"strings"
)

// Validate checks the fields every persisted provider must carry.
func Validate(p Provider) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if err := ValidateBaseURL(p.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return &ValidationError{Field: "apiKey", Reason: "is required"}
	}
	return nil
}

// ValidateBaseURL requires an absolute URL with a scheme and host. The value
// itself is never normalized; a trailing slash is kept verbatim.
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &ValidationError{Field: "baseUrl", Reason: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "baseUrl", Reason: "must be an absolute URL like https://api.example.com"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "baseUrl", Reason: "must use http or https"}
	}
	return nil
}

// ValidatePreset checks a user-defined preset.
func ValidatePreset(p PresetTemplate) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return ValidateBaseURL(p.BaseURL)
}
