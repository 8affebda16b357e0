// Package workspace manages the per-client directory layout: inputs,
// working state (rules, export profiles, the review database), and
// generated outputs.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace resolves paths for one client under a data root.
type Workspace struct {
	root string
	slug string
}

// New creates a workspace handle for a client slug. Directories are
// created lazily by the path accessors.
func New(root, slug string) *Workspace {
	return &Workspace{root: root, slug: slug}
}

// Slug returns the client identifier.
func (w *Workspace) Slug() string {
	return w.slug
}

func (w *Workspace) ensure(parts ...string) (string, error) {
	path := filepath.Join(append([]string{w.root, w.slug}, parts...)...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace dir %s: %w", path, err)
	}
	return path, nil
}

// InputsDir is where uploaded CSV exports live.
func (w *Workspace) InputsDir() (string, error) {
	return w.ensure("inputs")
}

// OutputsDir is where generated export files are written.
func (w *Workspace) OutputsDir() (string, error) {
	return w.ensure("outputs")
}

// RulesPath is the YAML file holding the client's pattern rules.
func (w *Workspace) RulesPath() (string, error) {
	dir, err := w.ensure("workspace", "rules")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rules.yaml"), nil
}

// ProfilesDir holds the client's export column profiles.
func (w *Workspace) ProfilesDir() (string, error) {
	return w.ensure("workspace", "profiles")
}

// ReviewDBPath is the SQLite file backing the review queue.
func (w *Workspace) ReviewDBPath() (string, error) {
	dir, err := w.ensure("workspace")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "review.db"), nil
}
