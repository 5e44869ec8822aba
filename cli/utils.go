package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/chronotree/chronotree/internal/chronotree"
)

// parseHashArg decodes a hex-encoded hash given on the command line.
func parseHashArg(s string) (chronotree.Hash, error) {
	var h chronotree.Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("invalid hash %q: want %d bytes, got %d", s, len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// loadTree opens storage and attaches a ChronoTree to name's
// currently-registered bitter end.
func loadTree(dir, backend, name string) (*chronotree.ChronoTree, func() error, error) {
	store, closer, err := openStorage(dir, backend)
	if err != nil {
		return nil, nil, err
	}

	reg, err := openRegistry(dir)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("open registry: %w", err)
	}

	head, err := reg.Get(name)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("tree %q is not registered (run: chronotree init --name %s): %w", name, name, err)
	}

	storage := chronotree.NewNodeStorage(store)
	tree, err := chronotree.New(storage, &head, name)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("attach to tree %q: %w", name, err)
	}

	return tree, closer, nil
}
