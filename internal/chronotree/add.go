package chronotree

import "fmt"

// Add appends node — normally built with NewContent — to this replica's
// history and returns the same ChronoTree with its frontier advanced.
//
// node.Parent is taken as given; Add never checks it against
// known_nodes. A Parent that names a hash this replica has never seen
// is accepted silently and simply cannot be excluded from the new
// node's predecessor set (there being nothing to exclude it from).
//
// node ties up every current loose end: each becomes either its parent
// (if named as such) or one of its predecessors, so none of them
// remains a leaf. The new frontier therefore always collapses to the
// single hash node is saved under — Add never synthesizes an
// Aggregate; only Merge does.
//
// If Storage fails partway through — after the new node is saved but
// before the frontier update completes — known_nodes may already
// contain the new node while bitter_end and loose_ends remain exactly
// as they were before the call; Add performs no compensating rollback.
func (t *ChronoTree) Add(node Node) (*ChronoTree, error) {
	predecessors := make([]Hash, 0, len(t.looseEnds))
	for h := range t.looseEnds {
		if h == node.Parent {
			continue
		}
		predecessors = append(predecessors, h)
	}
	sortHashes(predecessors)

	node.Kind = ContentNode
	node.Predecessors = predecessors
	node.Hash = UnsetHash

	newHash, err := t.storage.Save(node, t.name)
	if err != nil {
		return nil, fmt.Errorf("chronotree: add: %w", err)
	}
	node.Hash = newHash
	t.knownNodes[newHash] = node

	oldBitterEnd := t.bitterEnd
	if old, ok := t.knownNodes[oldBitterEnd]; ok && old.Kind == AggregateNode {
		delete(t.knownNodes, oldBitterEnd)
		if err := t.storage.Delete(oldBitterEnd, t.name); err != nil {
			return nil, fmt.Errorf("chronotree: add: evict superseded aggregate: %w", err)
		}
	}

	t.bitterEnd = newHash
	t.looseEnds = map[Hash]struct{}{newHash: {}}
	return t, nil
}
