package chronotree

import (
	"fmt"
	"sort"
)

// ChronoTree is one replica's view of a content-addressed DAG of
// immutable posts. Two replicas that have observed the same set of
// Content nodes converge to byte-identical BitterEnd digests
// regardless of the order in which they learned about them.
//
// A ChronoTree is single-threaded: all methods are synchronous, run to
// completion, and are undefined for concurrent use from multiple
// goroutines without external mutual exclusion.
type ChronoTree struct {
	storage Storage
	name    string

	knownNodes map[Hash]Node
	looseEnds  map[Hash]struct{}
	bitterEnd  Hash
}

// New constructs a ChronoTree backed by storage. If head is nil, an
// empty Aggregate is synthesized and saved, and its hash becomes the
// initial bitter end (the Empty-Aggregate state). Otherwise the replica
// attaches to head by walking its ancestor DAG through storage (the
// Init/attach procedure).
func New(storage Storage, head *Hash, name string) (*ChronoTree, error) {
	t := &ChronoTree{
		storage:    storage,
		name:       name,
		knownNodes: make(map[Hash]Node),
		looseEnds:  make(map[Hash]struct{}),
	}

	if head == nil {
		agg := Node{Kind: AggregateNode, Parent: UnsetHash}
		h, err := storage.Save(agg, name)
		if err != nil {
			return nil, fmt.Errorf("chronotree: init empty aggregate: %w", err)
		}
		agg.Hash = h
		t.knownNodes[h] = agg
		t.bitterEnd = h
		return t, nil
	}

	if err := t.attach(*head); err != nil {
		return nil, fmt.Errorf("chronotree: attach to %s: %w", head, err)
	}
	return t, nil
}

// attach implements the Init/attach procedure (spec §4.4): walk the DAG
// rooted at head through Storage, populate known_nodes, and derive
// loose_ends and bitter_end from the discovered graph.
func (t *ChronoTree) attach(head Hash) error {
	queue := []Hash{head}
	visited := make(map[Hash]bool)

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true

		node, err := t.storage.Find(h, t.name)
		if err != nil {
			return err
		}
		node.Hash = h
		t.knownNodes[h] = node

		if node.Parent != UnsetHash {
			queue = append(queue, node.Parent)
		}
		queue = append(queue, node.Predecessors...)
	}

	headNode := t.knownNodes[head]
	exclude := make(map[Hash]struct{}, 1)
	if headNode.Kind == AggregateNode {
		exclude[head] = struct{}{}
	}

	t.looseEnds = recomputeLooseEnds(t.knownNodes, exclude)
	t.bitterEnd = head
	return nil
}

// recomputeLooseEnds returns the set of hashes in known that are not
// named as parent or predecessor by any other node in known, ignoring
// every hash in exclude entirely (neither counted as a candidate nor
// walked for references) — the "current bitter-end Aggregate" carve-out
// from spec §3 invariant 4. Pass an empty set when there is nothing to
// exclude.
func recomputeLooseEnds(known map[Hash]Node, exclude map[Hash]struct{}) map[Hash]struct{} {
	candidates := make(map[Hash]struct{}, len(known))
	for h := range known {
		if _, skip := exclude[h]; skip {
			continue
		}
		candidates[h] = struct{}{}
	}

	for h, n := range known {
		if _, skip := exclude[h]; skip {
			continue
		}
		if n.Parent != UnsetHash {
			delete(candidates, n.Parent)
		}
		for _, p := range n.Predecessors {
			delete(candidates, p)
		}
	}

	return candidates
}

// BitterEnd returns the current digest summarising this replica's
// frontier.
func (t *ChronoTree) BitterEnd() Hash {
	return t.bitterEnd
}

// LooseEnds returns the current loose-end set as a hash-sorted
// sequence. When the bitter end is itself a Content node, it already
// is the frontier, so LooseEnds returns the empty sequence rather than
// a single-element one containing the bitter end — the same carve-out
// invariant 4 grants the bitter-end Aggregate, applied symmetrically.
// Two replicas with equal loose-end sets produce equal sequences here
// regardless of merge/add order.
func (t *ChronoTree) LooseEnds() []Hash {
	if bitterEndNode, ok := t.knownNodes[t.bitterEnd]; ok && bitterEndNode.Kind == ContentNode {
		return nil
	}

	out := make([]Hash, 0, len(t.looseEnds))
	for h := range t.looseEnds {
		out = append(out, h)
	}
	sortHashes(out)
	return out
}

// KnownNodes returns every node currently in known_nodes, ordered by
// sorted hash, for deterministic comparison between replicas.
// Superseded Aggregates have been evicted and do not appear.
func (t *ChronoTree) KnownNodes() []Node {
	out := make([]Node, 0, len(t.knownNodes))
	for _, n := range t.knownNodes {
		out = append(out, n.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return lessHash(out[i].Hash, out[j].Hash)
	})
	return out
}

// Name returns this replica's diagnostic label.
func (t *ChronoTree) Name() string {
	return t.name
}

// StorageOf returns the Storage this replica was constructed with.
func (t *ChronoTree) StorageOf() Storage {
	return t.storage
}

// GetNode looks up hash in known_nodes, failing with ErrUnknownHash if
// absent.
func (t *ChronoTree) GetNode(hash Hash) (Node, error) {
	n, ok := t.knownNodes[hash]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownHash, hash)
	}
	return n.clone(), nil
}

func sortHashes(hs []Hash) {
	sort.Slice(hs, func(i, j int) bool {
		return lessHash(hs[i], hs[j])
	})
}

func lessHash(a, b Hash) bool {
	return a.String() < b.String()
}
