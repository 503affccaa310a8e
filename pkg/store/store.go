// Package store persists provider profiles, one JSON document per tool under
// the switchboard root, and applies the active one through the tool's
// config writer.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/logger"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

const (
	kindProvider = "provider"
	kindPreset   = "preset"
)

// Store is the local source of truth for provider profiles.
type Store struct {
	paths    dotdir.Paths
	registry *writer.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to logger.Nop().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = logger.OrNop(l) }
}

// WithClock overrides time.Now, for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store rooted at paths.Root that applies providers through
// registry.
func New(paths dotdir.Paths, registry *writer.Registry, opts ...Option) *Store {
	s := &Store{
		paths:    paths,
		registry: registry,
		logger:   logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input holds the user-supplied fields of a new provider.
type Input struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	Desc    string
}

// Patch describes a partial update. A nil field is left unchanged; a
// pointer to "" clears the optional Model and Desc fields.
type Patch struct {
	Name    *string
	BaseURL *string
	APIKey  *string
	Model   *string
	Desc    *string
}

func (p Patch) apply(dst *provider.Provider) {
	if p.Name != nil {
		dst.Name = strings.TrimSpace(*p.Name)
	}
	if p.BaseURL != nil {
		dst.BaseURL = strings.TrimSpace(*p.BaseURL)
	}
	if p.APIKey != nil {
		dst.APIKey = strings.TrimSpace(*p.APIKey)
	}
	if p.Model != nil {
		dst.Model = strings.TrimSpace(*p.Model)
	}
	if p.Desc != nil {
		dst.Desc = *p.Desc
	}
}

// Path returns the store file for t.
func (s *Store) Path(t tool.Tool) string {
	return s.paths.StoreFile(t.String())
}

// NativePaths returns the tool's own config files the writer manages.
func (s *Store) NativePaths(t tool.Tool) ([]string, error) {
	return s.registry.Paths(t)
}

// Load reads the store document for t. A missing file is an empty store.
func (s *Store) Load(t tool.Tool) (provider.ToolStorage, error) {
	if !t.Valid() {
		return provider.ToolStorage{}, &tool.UnsupportedError{Name: t.String()}
	}

	path := s.Path(t)
	data, exists, err := fsutil.ReadIfExists(path)
	if err != nil {
		return provider.ToolStorage{}, fmt.Errorf("reading %s store: %w", t, err)
	}
	if !exists || len(strings.TrimSpace(string(data))) == 0 {
		return provider.ToolStorage{}, nil
	}

	var doc provider.ToolStorage
	if err := json.Unmarshal(data, &doc); err != nil {
		return provider.ToolStorage{}, &writer.ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Save replaces the store document for t atomically.
func (s *Store) Save(t tool.Tool, doc provider.ToolStorage) error {
	if !t.Valid() {
		return &tool.UnsupportedError{Name: t.String()}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s store: %w", t, err)
	}
	data = append(data, '\n')

	path := s.Path(t)
	if err := fsutil.AtomicWrite(path, data, fsutil.FileMode); err != nil {
		return fmt.Errorf("saving %s store: %w", t, err)
	}
	s.logger.Debug("store saved", "tool", t.String(), "path", path, "providers", len(doc.Providers))
	return nil
}

// Add validates in and appends a new provider.
func (s *Store) Add(t tool.Tool, in Input) (provider.Provider, error) {
	doc, err := s.Load(t)
	if err != nil {
		return provider.Provider{}, err
	}

	now := s.now()
	p := provider.Provider{
		ID:        provider.NewID(t, now),
		Name:      strings.TrimSpace(in.Name),
		BaseURL:   strings.TrimSpace(in.BaseURL),
		APIKey:    strings.TrimSpace(in.APIKey),
		Model:     strings.TrimSpace(in.Model),
		Desc:      in.Desc,
		CreatedAt: now.UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}
	if err := s.insert(t, &doc, p); err != nil {
		return provider.Provider{}, err
	}
	s.logger.Info("provider added", "tool", t.String(), "provider", p.Name)
	return p, nil
}

func (s *Store) insert(t tool.Tool, doc *provider.ToolStorage, p provider.Provider) error {
	if err := provider.Validate(p); err != nil {
		return err
	}
	if doc.FindByName(p.Name) >= 0 {
		return &NameConflictError{Tool: t, Name: p.Name}
	}
	doc.Providers = append(doc.Providers, p)
	return s.Save(t, *doc)
}

// List returns the providers of t, newest first.
func (s *Store) List(t tool.Tool) ([]provider.Provider, error) {
	doc, err := s.Load(t)
	if err != nil {
		return nil, err
	}
	return provider.SortNewestFirst(doc.Providers), nil
}

// Get returns the provider named name.
func (s *Store) Get(t tool.Tool, name string) (provider.Provider, error) {
	doc, err := s.Load(t)
	if err != nil {
		return provider.Provider{}, err
	}
	i := doc.FindByName(name)
	if i < 0 {
		return provider.Provider{}, &NotFoundError{Tool: t, Kind: kindProvider, Key: name}
	}
	return doc.Providers[i], nil
}

// Update applies patch to the provider named name. The record keeps its id.
func (s *Store) Update(t tool.Tool, name string, patch Patch) (provider.Provider, error) {
	doc, err := s.Load(t)
	if err != nil {
		return provider.Provider{}, err
	}
	i := doc.FindByName(name)
	if i < 0 {
		return provider.Provider{}, &NotFoundError{Tool: t, Kind: kindProvider, Key: name}
	}

	updated := doc.Providers[i]
	patch.apply(&updated)
	if err := provider.Validate(updated); err != nil {
		return provider.Provider{}, err
	}
	if j := doc.FindByName(updated.Name); j >= 0 && j != i {
		return provider.Provider{}, &NameConflictError{Tool: t, Name: updated.Name}
	}
	if updated == doc.Providers[i] {
		return updated, nil
	}

	updated.UpdatedAt = s.now().UnixMilli()
	doc.Providers[i] = updated
	if err := s.Save(t, doc); err != nil {
		return provider.Provider{}, err
	}
	s.logger.Info("provider updated", "tool", t.String(), "provider", updated.Name)
	return updated, nil
}

// Delete removes the provider named name and clears the active pointer when
// it referenced that record.
func (s *Store) Delete(t tool.Tool, name string) error {
	doc, err := s.Load(t)
	if err != nil {
		return err
	}
	i := doc.FindByName(name)
	if i < 0 {
		return &NotFoundError{Tool: t, Kind: kindProvider, Key: name}
	}

	removed := doc.Providers[i]
	doc.Providers = append(doc.Providers[:i:i], doc.Providers[i+1:]...)
	if doc.CurrentProviderID == removed.ID {
		doc.CurrentProviderID = ""
	}
	if err := s.Save(t, doc); err != nil {
		return err
	}
	s.logger.Info("provider removed", "tool", t.String(), "provider", removed.Name)
	return nil
}

// Clone copies the provider named source under newName with a fresh id and
// timestamps, then applies overrides.
func (s *Store) Clone(t tool.Tool, source, newName string, overrides Patch) (provider.Provider, error) {
	doc, err := s.Load(t)
	if err != nil {
		return provider.Provider{}, err
	}
	i := doc.FindByName(source)
	if i < 0 {
		return provider.Provider{}, &NotFoundError{Tool: t, Kind: kindProvider, Key: source}
	}

	now := s.now()
	p := doc.Providers[i]
	overrides.Name = &newName
	overrides.apply(&p)
	p.ID = provider.NewID(t, now)
	p.CreatedAt = now.UnixMilli()
	p.UpdatedAt = now.UnixMilli()
	p.LastUsedAt = 0

	if err := s.insert(t, &doc, p); err != nil {
		return provider.Provider{}, err
	}
	s.logger.Info("provider cloned", "tool", t.String(), "from", source, "provider", p.Name)
	return p, nil
}

// Current returns the active provider of t. The bool is false when no
// provider is active.
func (s *Store) Current(t tool.Tool) (provider.Provider, bool, error) {
	doc, err := s.Load(t)
	if err != nil {
		return provider.Provider{}, false, err
	}
	p, ok := doc.Current()
	return p, ok, nil
}

// Apply switches to the provider named name.
func (s *Store) Apply(t tool.Tool, name string) (provider.Provider, error) {
	p, err := s.Get(t, name)
	if err != nil {
		return provider.Provider{}, err
	}
	return s.Switch(t, p.ID)
}

// Switch makes the provider with id active. The tool's config is written
// first; the store is only updated when that succeeds, and the native files
// are put back if the store itself cannot be saved.
func (s *Store) Switch(t tool.Tool, id string) (provider.Provider, error) {
	doc, err := s.Load(t)
	if err != nil {
		return provider.Provider{}, err
	}
	i := doc.Find(id)
	if i < 0 {
		return provider.Provider{}, &NotFoundError{Tool: t, Kind: kindProvider, Key: id}
	}

	w, err := s.registry.Writer(t)
	if err != nil {
		return provider.Provider{}, err
	}
	snap, err := takeSnapshot(w.Paths())
	if err != nil {
		return provider.Provider{}, err
	}

	p := doc.Providers[i]
	if err := w.Write(p); err != nil {
		return provider.Provider{}, fmt.Errorf("applying %q to %s: %w", p.Name, t.DisplayName(), err)
	}

	now := s.now().UnixMilli()
	p.LastUsedAt = now
	p.UpdatedAt = now
	doc.Providers[i] = p
	doc.CurrentProviderID = p.ID
	if err := s.Save(t, doc); err != nil {
		if rerr := snap.restore(); rerr != nil {
			return provider.Provider{}, errors.Join(err, rerr)
		}
		return provider.Provider{}, err
	}

	s.logger.Info("provider switched", "tool", t.String(), "provider", p.Name)
	return p, nil
}

// ReapplyCurrent re-runs the writer for the active provider without touching
// the store. It reports whether a provider was active.
func (s *Store) ReapplyCurrent(t tool.Tool) (bool, error) {
	p, ok, err := s.Current(t)
	if err != nil || !ok {
		return false, err
	}
	w, err := s.registry.Writer(t)
	if err != nil {
		return false, err
	}
	if err := w.Write(p); err != nil {
		return true, fmt.Errorf("applying %q to %s: %w", p.Name, t.DisplayName(), err)
	}
	s.logger.Debug("provider re-applied", "tool", t.String(), "provider", p.Name)
	return true, nil
}
