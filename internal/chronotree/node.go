// Package chronotree implements the merge/bitter-end engine: a
// content-addressed, append-only DAG of immutable posts that converges
// across independently-evolving replicas without a total ordering
// policy. See the package-level doc on ChronoTree for the full
// contract.
package chronotree

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/chronotree/chronotree/internal/cas"
)

// Hash is the opaque, store-assigned label identifying a Node. The
// engine never constructs one itself.
type Hash = cas.Hash

// UnsetHash is the sentinel used for "no parent" on root Content nodes
// and for the always-unset Parent field of Aggregate nodes. A
// store-provided Hash must never collide with it; a real BLAKE3 digest
// of any non-empty input essentially never does.
var UnsetHash = Hash{}

// Kind tags a Node as carrying user payload (Content) or as a transient
// summary of loose ends (Aggregate).
type Kind uint8

const (
	// ContentNode carries arbitrary, engine-opaque user payload and
	// persists forever once saved.
	ContentNode Kind = iota + 1
	// AggregateNode carries no payload; it exists solely to name a set
	// of loose ends under one Hash, and is deleted once superseded.
	AggregateNode
)

func (k Kind) String() string {
	switch k {
	case ContentNode:
		return "content"
	case AggregateNode:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Node is the single tagged value type underlying both Content and
// Aggregate. Only {Hash, Kind, Parent, Predecessors} are observable by
// callers other than through Payload, which the engine never inspects.
type Node struct {
	// Hash is this node's own label, set by Storage on save. Zero
	// (UnsetHash) until saved.
	Hash Hash
	// Kind distinguishes Content from Aggregate.
	Kind Kind
	// Parent is the Hash of the Content node this one replies to, or
	// UnsetHash for roots and for every Aggregate.
	Parent Hash
	// Predecessors is the sorted sequence of loose-end Hashes that
	// existed immediately before this node was created.
	Predecessors []Hash
	// Payload carries opaque, application-defined bytes for Content
	// nodes. Always empty for Aggregate nodes.
	Payload []byte
}

// NewContent constructs a Content node ready to pass to Add. Hash and
// Predecessors are ignored by Add and overwritten; Parent may be
// UnsetHash for a root post.
func NewContent(parent Hash, payload []byte) Node {
	return Node{
		Kind:    ContentNode,
		Parent:  parent,
		Payload: append([]byte(nil), payload...),
	}
}

// cloneHashes returns a copy of hs so callers can't mutate a Node's
// slice fields through a returned reference.
func cloneHashes(hs []Hash) []Hash {
	if len(hs) == 0 {
		return nil
	}
	out := make([]Hash, len(hs))
	copy(out, hs)
	return out
}

// clone returns a deep copy of n safe to hand to a caller.
func (n Node) clone() Node {
	return Node{
		Hash:         n.Hash,
		Kind:         n.Kind,
		Parent:       n.Parent,
		Predecessors: cloneHashes(n.Predecessors),
		Payload:      append([]byte(nil), n.Payload...),
	}
}

// canonicalBytes returns the byte encoding of n whose hash is what
// Storage assigns. n.Hash itself never participates: callers must clear
// it (or simply never set it) before hashing, exactly as spec.md's
// Storage contract requires.
func canonicalBytes(n Node) []byte {
	var buf bytes.Buffer

	buf.WriteString(n.Kind.String())
	buf.WriteByte('\n')

	buf.WriteString("parent ")
	buf.WriteString(hex.EncodeToString(n.Parent[:]))
	buf.WriteByte('\n')

	for _, p := range n.Predecessors {
		buf.WriteString("predecessor ")
		buf.WriteString(hex.EncodeToString(p[:]))
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.Write(n.Payload)

	return buf.Bytes()
}

// decodeNode parses the bytes produced by canonicalBytes back into a
// Node (with Hash left unset; the caller fills it in from the Storage
// key it was fetched under).
func decodeNode(data []byte) (Node, error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return Node{}, fmt.Errorf("chronotree: malformed node encoding: missing kind line")
	}
	var kind Kind
	switch string(data[:nl]) {
	case "content":
		kind = ContentNode
	case "aggregate":
		kind = AggregateNode
	default:
		return Node{}, fmt.Errorf("chronotree: malformed node encoding: unknown kind %q", data[:nl])
	}
	rest := data[nl+1:]

	var parent Hash
	var predecessors []Hash
	for {
		nl = bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return Node{}, fmt.Errorf("chronotree: malformed node encoding: missing blank separator")
		}
		line := rest[:nl]
		rest = rest[nl+1:]

		if len(line) == 0 {
			break
		}

		fields := bytes.SplitN(line, []byte(" "), 2)
		if len(fields) != 2 {
			return Node{}, fmt.Errorf("chronotree: malformed node encoding: bad header line %q", line)
		}

		h, err := parseHash(string(fields[1]))
		if err != nil {
			return Node{}, fmt.Errorf("chronotree: malformed node encoding: %w", err)
		}

		switch string(fields[0]) {
		case "parent":
			parent = h
		case "predecessor":
			predecessors = append(predecessors, h)
		default:
			return Node{}, fmt.Errorf("chronotree: malformed node encoding: unknown field %q", fields[0])
		}
	}

	return Node{
		Kind:         kind,
		Parent:       parent,
		Predecessors: predecessors,
		Payload:      append([]byte(nil), rest...),
	}, nil
}

func parseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("invalid hash length for %q: got %d bytes, want %d", s, len(b), len(h))
	}
	copy(h[:], b)
	return h, nil
}
