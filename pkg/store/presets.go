package store

import (
	"slices"
	"strings"

	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

// ListPresets returns the built-in presets of t followed by user presets.
// A user preset replaces a built-in one of the same name in place.
func (s *Store) ListPresets(t tool.Tool) ([]provider.PresetTemplate, error) {
	builtin, err := s.registry.Presets(t)
	if err != nil {
		return nil, err
	}
	doc, err := s.Load(t)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(builtin)
	for _, user := range doc.Presets {
		user.IsBuiltIn = false
		if i := slices.IndexFunc(out, func(p provider.PresetTemplate) bool { return p.Name == user.Name }); i >= 0 {
			out[i] = user
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

// AddPreset stores a user preset. Names must be unique among user presets;
// reusing a built-in name overrides that built-in.
func (s *Store) AddPreset(t tool.Tool, preset provider.PresetTemplate) (provider.PresetTemplate, error) {
	preset.Name = strings.TrimSpace(preset.Name)
	preset.BaseURL = strings.TrimSpace(preset.BaseURL)
	preset.IsBuiltIn = false
	if err := provider.ValidatePreset(preset); err != nil {
		return provider.PresetTemplate{}, err
	}

	doc, err := s.Load(t)
	if err != nil {
		return provider.PresetTemplate{}, err
	}
	if slices.ContainsFunc(doc.Presets, func(p provider.PresetTemplate) bool { return p.Name == preset.Name }) {
		return provider.PresetTemplate{}, &NameConflictError{Tool: t, Name: preset.Name}
	}

	doc.Presets = append(doc.Presets, preset)
	if err := s.Save(t, doc); err != nil {
		return provider.PresetTemplate{}, err
	}
	s.logger.Info("preset added", "tool", t.String(), "preset", preset.Name)
	return preset, nil
}

// RemovePreset deletes a user preset. Built-in presets cannot be removed.
func (s *Store) RemovePreset(t tool.Tool, name string) error {
	doc, err := s.Load(t)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(doc.Presets, func(p provider.PresetTemplate) bool { return p.Name == name })
	if i < 0 {
		return &NotFoundError{Tool: t, Kind: kindPreset, Key: name}
	}
	doc.Presets = slices.Delete(doc.Presets, i, i+1)
	return s.Save(t, doc)
}
