package chronotree

import (
	"crypto/sha1"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

// Scenario 3: simple split-merge.
func TestMergeSimpleSplit(t *testing.T) {
	storage := newMemStorage()

	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "root")
	if err != nil {
		t.Fatalf("Save(root) failed: %v", err)
	}

	left, err := New(storage, &rootHash, "L")
	if err != nil {
		t.Fatalf("New(L) failed: %v", err)
	}
	right, err := New(storage, &rootHash, "R")
	if err != nil {
		t.Fatalf("New(R) failed: %v", err)
	}

	left, err = left.Add(NewContent(rootHash, []byte("a")))
	if err != nil {
		t.Fatalf("Add(a) failed: %v", err)
	}
	aHash := left.BitterEnd()

	right, err = right.Add(NewContent(rootHash, []byte("b")))
	if err != nil {
		t.Fatalf("Add(b) failed: %v", err)
	}
	bHash := right.BitterEnd()

	left, err = left.Merge(right.BitterEnd())
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	mergedNode, err := left.GetNode(left.BitterEnd())
	if err != nil {
		t.Fatalf("GetNode(bitter end) failed: %v", err)
	}
	if mergedNode.Kind != AggregateNode {
		t.Fatalf("merged bitter end kind = %v, want Aggregate", mergedNode.Kind)
	}
	if mergedNode.Parent != UnsetHash {
		t.Errorf("Aggregate Parent = %v, want UnsetHash", mergedNode.Parent)
	}

	want := []Hash{aHash, bHash}
	sortHashes(want)
	if !reflect.DeepEqual(mergedNode.Predecessors, want) {
		t.Errorf("Predecessors = %v, want %v", mergedNode.Predecessors, want)
	}
}

// Scenario 4: commutativity pair.
func TestMergeCommutativity(t *testing.T) {
	storage := newMemStorage()

	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "root")
	if err != nil {
		t.Fatalf("Save(root) failed: %v", err)
	}

	left, err := New(storage, &rootHash, "L")
	if err != nil {
		t.Fatalf("New(L) failed: %v", err)
	}
	right, err := New(storage, &rootHash, "R")
	if err != nil {
		t.Fatalf("New(R) failed: %v", err)
	}

	left, err = left.Add(NewContent(rootHash, []byte("a")))
	if err != nil {
		t.Fatalf("Add(a) failed: %v", err)
	}
	aHashBeforeMerge := left.BitterEnd()

	right, err = right.Add(NewContent(rootHash, []byte("b")))
	if err != nil {
		t.Fatalf("Add(b) failed: %v", err)
	}
	bHash := right.BitterEnd()

	left, err = left.Merge(bHash)
	if err != nil {
		t.Fatalf("L.Merge(R) failed: %v", err)
	}
	right, err = right.Merge(aHashBeforeMerge)
	if err != nil {
		t.Fatalf("R.Merge(L) failed: %v", err)
	}

	assertConverged(t, left, right)
}

// Scenario 5: three-way associativity across three different merge
// orders, each starting from its own fresh trio of replicas so the
// three orderings don't interfere with each other.
func TestMergeAssociativity(t *testing.T) {
	build := func() (a, b, c *ChronoTree) {
		storage := newMemStorage()
		root := NewContent(UnsetHash, []byte("root"))
		rootHash, err := storage.Save(root, "root")
		if err != nil {
			t.Fatalf("Save(root) failed: %v", err)
		}

		a, err = New(storage, &rootHash, "A")
		if err != nil {
			t.Fatalf("New(A) failed: %v", err)
		}
		b, err = New(storage, &rootHash, "B")
		if err != nil {
			t.Fatalf("New(B) failed: %v", err)
		}
		c, err = New(storage, &rootHash, "C")
		if err != nil {
			t.Fatalf("New(C) failed: %v", err)
		}

		a, err = a.Add(NewContent(rootHash, []byte("a")))
		if err != nil {
			t.Fatalf("Add(a) failed: %v", err)
		}
		b, err = b.Add(NewContent(rootHash, []byte("b")))
		if err != nil {
			t.Fatalf("Add(b) failed: %v", err)
		}
		c, err = c.Add(NewContent(rootHash, []byte("c")))
		if err != nil {
			t.Fatalf("Add(c) failed: %v", err)
		}
		return a, b, c
	}

	a1, b1, c1 := build()
	_, bBitterEnd, cBitterEnd := a1.BitterEnd(), b1.BitterEnd(), c1.BitterEnd()

	// (a -> b) -> c
	r1, err := a1.Merge(bBitterEnd)
	if err != nil {
		t.Fatalf("(a->b) failed: %v", err)
	}
	r1, err = r1.Merge(cBitterEnd)
	if err != nil {
		t.Fatalf("(a->b)->c failed: %v", err)
	}

	// a -> (b -> c)
	a2, b2, c2 := build()
	r2, err := b2.Merge(c2.BitterEnd())
	if err != nil {
		t.Fatalf("(b->c) failed: %v", err)
	}
	r2, err = a2.Merge(r2.BitterEnd())
	if err != nil {
		t.Fatalf("a->(b->c) failed: %v", err)
	}

	// (c -> a) -> b
	a3, b3, c3 := build()
	r3, err := c3.Merge(a3.BitterEnd())
	if err != nil {
		t.Fatalf("(c->a) failed: %v", err)
	}
	r3, err = r3.Merge(b3.BitterEnd())
	if err != nil {
		t.Fatalf("(c->a)->b failed: %v", err)
	}

	assertConverged(t, r1, r2)
	assertConverged(t, r2, r3)
}

func TestMergeIdempotence(t *testing.T) {
	storage := newMemStorage()

	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "root")
	if err != nil {
		t.Fatalf("Save(root) failed: %v", err)
	}

	left, err := New(storage, &rootHash, "L")
	if err != nil {
		t.Fatalf("New(L) failed: %v", err)
	}
	right, err := New(storage, &rootHash, "R")
	if err != nil {
		t.Fatalf("New(R) failed: %v", err)
	}
	right, err = right.Add(NewContent(rootHash, []byte("b")))
	if err != nil {
		t.Fatalf("Add(b) failed: %v", err)
	}

	once, err := left.Merge(right.BitterEnd())
	if err != nil {
		t.Fatalf("first Merge failed: %v", err)
	}
	onceEnd := once.BitterEnd()
	onceLoose := once.LooseEnds()

	twice, err := once.Merge(right.BitterEnd())
	if err != nil {
		t.Fatalf("second Merge failed: %v", err)
	}

	if twice.BitterEnd() != onceEnd {
		t.Errorf("bitter_end changed on repeated Merge: %v -> %v", onceEnd, twice.BitterEnd())
	}
	if !reflect.DeepEqual(twice.LooseEnds(), onceLoose) {
		t.Errorf("loose_ends changed on repeated Merge: %v -> %v", onceLoose, twice.LooseEnds())
	}
}

func TestMergeNoOpWhenAlreadyAtBitterEnd(t *testing.T) {
	storage := newMemStorage()
	tree, err := New(storage, nil, "t")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	before := tree.BitterEnd()
	tree, err = tree.Merge(before)
	if err != nil {
		t.Fatalf("Merge(self) failed: %v", err)
	}
	if tree.BitterEnd() != before {
		t.Error("Merge(current bitter end) must be a no-op")
	}
}

// Scenario 6: randomized three-replica convergence.
func TestMergeRandomizedConvergence(t *testing.T) {
	storage := newMemStorage()
	rng := rand.New(rand.NewSource(1))

	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "root")
	if err != nil {
		t.Fatalf("Save(root) failed: %v", err)
	}

	replicas := make([]*ChronoTree, 3)
	knownContentHashes := [][]Hash{{rootHash}, {rootHash}, {rootHash}}
	for i := range replicas {
		replicas[i], err = New(storage, &rootHash, fmt.Sprintf("r%d", i))
		if err != nil {
			t.Fatalf("New(r%d) failed: %v", i, err)
		}
	}

	for iter := 0; iter < 100; iter++ {
		for i := range replicas {
			parent := knownContentHashes[i][rng.Intn(len(knownContentHashes[i]))]
			payload := []byte(fmt.Sprintf("iter%d-replica%d", iter, i))
			replicas[i], err = replicas[i].Add(NewContent(parent, payload))
			if err != nil {
				t.Fatalf("iter %d: Add on replica %d failed: %v", iter, i, err)
			}

			for _, n := range replicas[i].KnownNodes() {
				if n.Kind == ContentNode {
					knownContentHashes[i] = appendIfMissing(knownContentHashes[i], n.Hash)
				}
			}
		}

		for i := range replicas {
			for j := range replicas {
				if i == j {
					continue
				}
				replicas[i], err = replicas[i].Merge(replicas[j].BitterEnd())
				if err != nil {
					t.Fatalf("iter %d: replica %d merging replica %d failed: %v", iter, i, j, err)
				}
			}
		}

		first := replicas[0].BitterEnd()
		firstLooseDigest := digest(replicas[0].LooseEnds())
		firstKnownDigest := digestNodes(replicas[0].KnownNodes())
		for i := 1; i < len(replicas); i++ {
			if replicas[i].BitterEnd() != first {
				t.Fatalf("iter %d: replica %d bitter_end diverged", iter, i)
			}
			if digest(replicas[i].LooseEnds()) != firstLooseDigest {
				t.Fatalf("iter %d: replica %d loose_ends diverged", iter, i)
			}
			if digestNodes(replicas[i].KnownNodes()) != firstKnownDigest {
				t.Fatalf("iter %d: replica %d known_nodes diverged", iter, i)
			}
		}
	}
}

func BenchmarkMerge(b *testing.B) {
	storage := newMemStorage()
	root := NewContent(UnsetHash, []byte("root"))
	rootHash, err := storage.Save(root, "root")
	if err != nil {
		b.Fatalf("Save(root) failed: %v", err)
	}

	left, err := New(storage, &rootHash, "L")
	if err != nil {
		b.Fatalf("New(L) failed: %v", err)
	}
	right, err := New(storage, &rootHash, "R")
	if err != nil {
		b.Fatalf("New(R) failed: %v", err)
	}

	const width = 32
	for i := 0; i < width; i++ {
		right, err = right.Add(NewContent(rootHash, []byte(fmt.Sprintf("post-%d", i))))
		if err != nil {
			b.Fatalf("Add failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := left.Merge(right.BitterEnd()); err != nil {
			b.Fatalf("Merge failed: %v", err)
		}
	}
}

func assertConverged(t *testing.T, a, b *ChronoTree) {
	t.Helper()
	if a.BitterEnd() != b.BitterEnd() {
		t.Errorf("bitter_end mismatch: %v vs %v", a.BitterEnd(), b.BitterEnd())
	}
	if digest(a.LooseEnds()) != digest(b.LooseEnds()) {
		t.Errorf("loose_ends mismatch: %v vs %v", a.LooseEnds(), b.LooseEnds())
	}
	if digestNodes(a.KnownNodes()) != digestNodes(b.KnownNodes()) {
		t.Error("known_nodes mismatch")
	}
}

func digest(hs []Hash) string {
	h := sha1.New()
	for _, hh := range hs {
		h.Write(hh[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func digestNodes(nodes []Node) string {
	h := sha1.New()
	for _, n := range nodes {
		h.Write(n.Hash[:])
		h.Write([]byte{byte(n.Kind)})
		h.Write(n.Parent[:])
		for _, p := range n.Predecessors {
			h.Write(p[:])
		}
		h.Write(n.Payload)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func appendIfMissing(hs []Hash, h Hash) []Hash {
	for _, existing := range hs {
		if existing == h {
			return hs
		}
	}
	return append(hs, h)
}
