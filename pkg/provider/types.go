// Package provider defines the provider records switchboard stores per tool.
package provider

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/switchboard/pkg/tool"
)

// Provider is one named endpoint + credential profile for a tool.
// Timestamps are Unix milliseconds.
type Provider struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BaseURL    string `json:"baseUrl"`
	APIKey     string `json:"apiKey"`
	Model      string `json:"model,omitempty"`
	Desc       string `json:"desc,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
	LastUsedAt int64  `json:"lastUsedAt,omitempty"`
}

// PresetTemplate is seed data offered when adding a provider.
type PresetTemplate struct {
	Name        string `json:"name"`
	BaseURL     string `json:"baseUrl"`
	Description string `json:"description"`
	IsBuiltIn   bool   `json:"isBuiltIn"`
}

// ToolStorage is the on-disk document for one tool. Top-level keys this
// package does not know about are carried in Extra and written back
// unchanged.
type ToolStorage struct {
	Providers         []Provider
	CurrentProviderID string
	Presets           []PresetTemplate
	Extra             map[string]json.RawMessage
}

var knownKeys = []string{"providers", "currentProviderId", "presets"}

func (s ToolStorage) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Extra)+len(knownKeys))
	for k, v := range s.Extra {
		doc[k] = v
	}

	providers := s.Providers
	if providers == nil {
		providers = []Provider{}
	}
	doc["providers"] = providers

	if s.CurrentProviderID != "" {
		doc["currentProviderId"] = s.CurrentProviderID
	}
	if len(s.Presets) > 0 {
		presets := make([]PresetTemplate, len(s.Presets))
		for i, p := range s.Presets {
			p.IsBuiltIn = false
			presets[i] = p
		}
		doc["presets"] = presets
	}

	return json.Marshal(doc)
}

func (s *ToolStorage) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = ToolStorage{}
	if v, ok := raw["providers"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &s.Providers); err != nil {
			return fmt.Errorf("decoding providers: %w", err)
		}
	}
	if v, ok := raw["currentProviderId"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &s.CurrentProviderID); err != nil {
			return fmt.Errorf("decoding currentProviderId: %w", err)
		}
	}
	if v, ok := raw["presets"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &s.Presets); err != nil {
			return fmt.Errorf("decoding presets: %w", err)
		}
	}

	for _, k := range knownKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

// Clone returns a deep copy, so callers can mutate the copy freely.
func (s ToolStorage) Clone() ToolStorage {
	out := ToolStorage{
		Providers:         slices.Clone(s.Providers),
		CurrentProviderID: s.CurrentProviderID,
		Presets:           slices.Clone(s.Presets),
	}
	if s.Extra != nil {
		out.Extra = maps.Clone(s.Extra)
	}
	return out
}

// Find returns the index of the provider with the given id, or -1.
func (s ToolStorage) Find(id string) int {
	return slices.IndexFunc(s.Providers, func(p Provider) bool { return p.ID == id })
}

// FindByName returns the index of the provider with the given name, or -1.
// Names are case-sensitive.
func (s ToolStorage) FindByName(name string) int {
	return slices.IndexFunc(s.Providers, func(p Provider) bool { return p.Name == name })
}

// Current returns the active provider, if the pointer is set and valid.
func (s ToolStorage) Current() (Provider, bool) {
	if s.CurrentProviderID == "" {
		return Provider{}, false
	}
	i := s.Find(s.CurrentProviderID)
	if i < 0 {
		return Provider{}, false
	}
	return s.Providers[i], true
}

// NewID returns an id of the form {tool}-{unixMillis}-{random6}.
func NewID(t tool.Tool, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%d-%s", t, now.UnixMilli(), random)
}

// SortNewestFirst orders providers by CreatedAt descending, ties by id, and
// returns the sorted copy.
func SortNewestFirst(in []Provider) []Provider {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b Provider) int {
		if a.CreatedAt != b.CreatedAt {
			if a.CreatedAt > b.CreatedAt {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
