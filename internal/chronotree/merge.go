package chronotree

import "fmt"

// Merge folds another replica's frontier — identified by its bitter end
// hash, reachable through this replica's own Storage — into this one.
// Two replicas that have each merged the other's bitter end converge to
// the same bitter_end regardless of merge order or how many times the
// merge is repeated: Merge is commutative, associative, and idempotent.
//
// If other is already this replica's bitter end, Merge is a no-op.
// Otherwise it walks other's ancestor DAG through Storage, pruning into
// any subtree already present in known_nodes (append-only history
// guarantees such a subtree's own ancestors are already known too),
// recomputes the combined loose-end set, and synthesizes a new
// Aggregate when more than one loose end survives.
//
// As with Add, a Storage failure partway through leaves newly
// discovered ancestor nodes in known_nodes with bitter_end and
// loose_ends unchanged; Merge performs no compensating rollback.
func (t *ChronoTree) Merge(other Hash) (*ChronoTree, error) {
	if other == t.bitterEnd {
		return t, nil
	}

	queue := []Hash{other}
	visited := make(map[Hash]bool)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true

		if _, known := t.knownNodes[h]; known {
			continue
		}

		node, err := t.storage.Find(h, t.name)
		if err != nil {
			return nil, fmt.Errorf("chronotree: merge: %w", err)
		}
		node.Hash = h
		t.knownNodes[h] = node

		if node.Parent != UnsetHash {
			queue = append(queue, node.Parent)
		}
		queue = append(queue, node.Predecessors...)
	}

	oldBitterEnd := t.bitterEnd
	exclude := make(map[Hash]struct{}, 2)
	if old := t.knownNodes[oldBitterEnd]; old.Kind == AggregateNode {
		exclude[oldBitterEnd] = struct{}{}
	}
	if theirs := t.knownNodes[other]; theirs.Kind == AggregateNode {
		exclude[other] = struct{}{}
	}

	newLooseEnds := recomputeLooseEnds(t.knownNodes, exclude)

	var newBitterEnd Hash
	if len(newLooseEnds) == 1 {
		for h := range newLooseEnds {
			newBitterEnd = h
		}
	} else {
		aggPredecessors := make([]Hash, 0, len(newLooseEnds))
		for h := range newLooseEnds {
			aggPredecessors = append(aggPredecessors, h)
		}
		sortHashes(aggPredecessors)

		agg := Node{Kind: AggregateNode, Parent: UnsetHash, Predecessors: aggPredecessors}
		aggHash, err := t.storage.Save(agg, t.name)
		if err != nil {
			return nil, fmt.Errorf("chronotree: merge: synthesize aggregate: %w", err)
		}
		agg.Hash = aggHash
		t.knownNodes[aggHash] = agg
		newBitterEnd = aggHash
	}

	// other's Aggregate hash lives in the shared store and may still be
	// another replica's bitter_end; drop it from known_nodes without
	// ever touching Storage. Only this replica's own previous Aggregate
	// bitter end is deleted from Storage, and never when it turns out to
	// still be the new bitter end.
	if _, ok := exclude[other]; ok && other != newBitterEnd {
		delete(t.knownNodes, other)
	}
	if oldBitterEnd != other && oldBitterEnd != newBitterEnd {
		if _, ok := exclude[oldBitterEnd]; ok {
			delete(t.knownNodes, oldBitterEnd)
			if err := t.storage.Delete(oldBitterEnd, t.name); err != nil {
				return nil, fmt.Errorf("chronotree: merge: evict superseded aggregate: %w", err)
			}
		}
	}

	t.bitterEnd = newBitterEnd
	t.looseEnds = newLooseEnds
	return t, nil
}
