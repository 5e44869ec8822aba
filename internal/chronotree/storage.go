package chronotree

import (
	"errors"
	"fmt"

	"github.com/chronotree/chronotree/internal/cas"
)

// Storage is the external collaborator the engine depends on: a
// content-addressable store operating at Node granularity. Any
// implementation suffices as long as Save is a pure function of a
// node's remaining fields once its own Hash has been cleared.
type Storage interface {
	// Save persists node's content and returns its hash. The hash
	// field on the node passed in is ignored; the returned hash is a
	// pure function of {Kind, Parent, Predecessors, Payload}. Saving
	// the same logical content twice returns equal hashes. tree is an
	// advisory diagnostic label with no semantic effect.
	Save(node Node, tree string) (Hash, error)

	// Find returns the node previously saved under hash. Returns a
	// wrapped ErrStorageNotFound if absent.
	Find(hash Hash, tree string) (Node, error)

	// Delete removes a hash -> node mapping. Implementations may treat
	// this as a no-op. Delete does not invalidate Node values the
	// caller already holds.
	Delete(hash Hash, tree string) error
}

// NodeStorage adapts a byte-level cas.CAS into the Node-granularity
// Storage contract the engine requires, performing canonical encoding
// and hashing on the way in and out. This is the engine's only
// dependency on a concrete byte store; swap the cas.CAS to change
// backend without touching chronotree itself.
type NodeStorage struct {
	CAS cas.CAS
}

// NewNodeStorage wraps c as a Storage.
func NewNodeStorage(c cas.CAS) *NodeStorage {
	return &NodeStorage{CAS: c}
}

// Save implements Storage.Save. tree is accepted for interface
// conformance and ignored; NodeStorage has no notion of diagnostic
// labeling beyond what a caller logs around the call.
func (s *NodeStorage) Save(node Node, tree string) (Hash, error) {
	node.Hash = UnsetHash
	data := canonicalBytes(node)
	hash := cas.SumB3(data)

	if err := s.CAS.Put(hash, data); err != nil {
		return Hash{}, fmt.Errorf("%w: %v", ErrStorageSaveFailure, err)
	}
	return hash, nil
}

// Find implements Storage.Find.
func (s *NodeStorage) Find(hash Hash, tree string) (Node, error) {
	data, err := s.CAS.Get(hash)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrStorageNotFound, err)
	}

	node, err := decodeNode(data)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrStorageNotFound, err)
	}
	node.Hash = hash
	return node, nil
}

// Delete implements Storage.Delete.
func (s *NodeStorage) Delete(hash Hash, tree string) error {
	return s.CAS.Delete(hash)
}

// IsNotFound reports whether err is, or wraps, ErrStorageNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStorageNotFound)
}
