package chronotree

import (
	"errors"
	"testing"

	"github.com/chronotree/chronotree/internal/cas"
)

func newMemStorage() Storage {
	return NewNodeStorage(cas.NewMemoryCAS())
}

// Scenario 1: empty construction.
func TestNewEmptyConstruction(t *testing.T) {
	storage := newMemStorage()

	tree, err := New(storage, nil, "t")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bitterEnd, err := tree.GetNode(tree.BitterEnd())
	if err != nil {
		t.Fatalf("GetNode(bitter end) failed: %v", err)
	}
	if bitterEnd.Kind != AggregateNode {
		t.Errorf("empty construction bitter end kind = %v, want Aggregate", bitterEnd.Kind)
	}
	if got := tree.LooseEnds(); len(got) != 0 {
		t.Errorf("LooseEnds() = %v, want empty", got)
	}
}

// Scenario 2: single post.
func TestAddSinglePost(t *testing.T) {
	storage := newMemStorage()

	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "t")
	if err != nil {
		t.Fatalf("Save(root) failed: %v", err)
	}

	tree, err := New(storage, &rootHash, "t")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	n := NewContent(rootHash, []byte("hello"))
	tree, err = tree.Add(n)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if tree.BitterEnd() == rootHash {
		t.Fatal("bitter end did not advance")
	}
	bitterEndNode, err := tree.GetNode(tree.BitterEnd())
	if err != nil {
		t.Fatalf("GetNode(bitter end) failed: %v", err)
	}
	if bitterEndNode.Kind != ContentNode {
		t.Errorf("bitter end kind = %v, want Content", bitterEndNode.Kind)
	}

	if got := tree.LooseEnds(); len(got) != 0 {
		t.Errorf("LooseEnds() for a Content bitter end = %v, want empty (decision 1)", got)
	}

	known := tree.KnownNodes()
	if len(known) != 2 {
		t.Fatalf("KnownNodes() has %d entries, want 2 (root + new post)", len(known))
	}
}

func TestGetNodeUnknownHash(t *testing.T) {
	storage := newMemStorage()
	tree, err := New(storage, nil, "t")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var bogus Hash
	bogus[0] = 0xFF
	_, err = tree.GetNode(bogus)
	if !errors.Is(err, ErrUnknownHash) {
		t.Errorf("GetNode(unknown) error = %v, want ErrUnknownHash", err)
	}
}

func TestAttachToContentHead(t *testing.T) {
	storage := newMemStorage()

	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "t")
	if err != nil {
		t.Fatalf("Save(root) failed: %v", err)
	}

	tree, err := New(storage, &rootHash, "t")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if tree.BitterEnd() != rootHash {
		t.Errorf("BitterEnd() = %v, want %v", tree.BitterEnd(), rootHash)
	}
	if got := tree.LooseEnds(); len(got) != 0 {
		t.Errorf("LooseEnds() for a lone Content head = %v, want empty", got)
	}
}
