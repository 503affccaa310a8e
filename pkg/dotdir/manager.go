// Package dotdir resolves the switchboard root directory and the home
// directory that native tool config files live under.
//
// Callers resolve a Paths value once and pass it explicitly to the store,
// writer registry and sync engine. Tests build their own Paths pointing at
// temporary directories instead of mutating process-wide state.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the switchboard directory under the user's home.
	dirName = ".switchboard"

	// EnvHome overrides the root directory when no explicit override is given.
	EnvHome = "SWITCHBOARD_HOME"
)

// Paths is the filesystem environment every component works against.
type Paths struct {
	// Root holds <tool>.json stores, config.toml and their backups.
	Root string

	// Home is the directory native tool configs are resolved against
	// (e.g. Home/.codex/config.toml).
	Home string
}

// StoreFile returns the path of the provider store for the named tool.
func (p Paths) StoreFile(tool string) string {
	return filepath.Join(p.Root, tool+".json")
}

// ConfigFile returns the path of the switchboard config.toml.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Root, "config.toml")
}

// HomePath joins parts onto the native config home.
func (p Paths) HomePath(parts ...string) string {
	return filepath.Join(append([]string{p.Home}, parts...)...)
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute root directory, creating it with owner-only
// permissions. Order of precedence is as follows:
//  1. Provided override
//  2. $SWITCHBOARD_HOME
//  3. Home ~/.switchboard/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case os.Getenv(EnvHome) != "":
		dir = os.Getenv(EnvHome)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating switchboard directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// Resolve returns the Paths for the current user. The root follows Target;
// Home is the user's home directory.
func (m *Manager) Resolve(overrideDir string) (Paths, error) {
	root, err := m.Target(overrideDir)
	if err != nil {
		return Paths{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("getting home directory: %w", err)
	}

	return Paths{Root: root, Home: home}, nil
}

// NewPaths builds a Paths value from explicit directories. Root is created.
func NewPaths(root, home string) (Paths, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return Paths{}, fmt.Errorf("creating switchboard directory %s: %w", root, err)
	}
	return Paths{Root: root, Home: home}, nil
}
