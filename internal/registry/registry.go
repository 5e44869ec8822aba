// Package registry persists named trees' bitter-end hashes across CLI
// invocations, the same way the teacher repo's refs package persists
// named branches: one small file per name under a well-known directory.
package registry

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chronotree/chronotree/internal/chronotree"
)

// Registry tracks the current bitter-end hash of every named tree a
// repository knows about.
type Registry struct {
	dir string
}

// Open returns a Registry rooted at dir, creating dir if necessary.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("registry: create dir: %w", err)
	}
	return &Registry{dir: dir}, nil
}

// Set records hash as tree's current bitter end, overwriting any prior
// value.
func (r *Registry) Set(tree string, hash chronotree.Hash) error {
	path, err := r.pathFor(tree)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("registry: create parent dir: %w", err)
	}
	content := hex.EncodeToString(hash[:]) + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("registry: write %s: %w", tree, err)
	}
	return nil
}

// Get returns the recorded bitter end for tree.
func (r *Registry) Get(tree string) (chronotree.Hash, error) {
	path, err := r.pathFor(tree)
	if err != nil {
		return chronotree.Hash{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return chronotree.Hash{}, fmt.Errorf("registry: read %s: %w", tree, err)
	}

	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return chronotree.Hash{}, fmt.Errorf("registry: decode %s: %w", tree, err)
	}

	var hash chronotree.Hash
	if len(raw) != len(hash) {
		return chronotree.Hash{}, fmt.Errorf("registry: %s: malformed hash length %d", tree, len(raw))
	}
	copy(hash[:], raw)
	return hash, nil
}

// Has reports whether tree has a recorded bitter end.
func (r *Registry) Has(tree string) bool {
	path, err := r.pathFor(tree)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// List returns the names of every tree this registry knows about.
func (r *Registry) List() ([]string, error) {
	var names []string
	err := filepath.Walk(r.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		names = append(names, strings.ReplaceAll(rel, string(filepath.Separator), "/"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	return names, nil
}

// pathFor rejects names that would escape dir and returns the on-disk
// path for name.
func (r *Registry) pathFor(name string) (string, error) {
	if name == "" || strings.Contains(name, "..") {
		return "", fmt.Errorf("registry: invalid tree name %q", name)
	}
	safe := strings.ReplaceAll(name, "/", string(filepath.Separator))
	return filepath.Join(r.dir, safe), nil
}
