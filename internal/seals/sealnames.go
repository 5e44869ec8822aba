// Package seals generates memorable, deterministic names for hashes.
//
// This package provides:
// - Generation of a 4-word adjective-noun-verb-adverb name from a hash
// - Deterministic generation (same hash always yields the same name)
// - Parsing a name back into its hash suffix
//
// Example name: swift-eagle-flies-high-447abe9b
package seals

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
)

// Word lists for generating memorable names.
var (
	adjectives = []string{
		"swift", "brave", "bold", "clever", "mighty", "gentle", "wise", "noble",
		"fierce", "calm", "bright", "dark", "ancient", "young", "strong", "quick",
		"silent", "loud", "warm", "cool", "sharp", "smooth", "rough", "soft",
		"hard", "light", "heavy", "deep", "shallow", "wide", "narrow", "tall",
	}

	nouns = []string{
		"eagle", "mountain", "river", "falcon", "wolf", "bear", "storm", "thunder",
		"forest", "ocean", "phoenix", "dragon", "tiger", "lion", "hawk", "raven",
		"fox", "deer", "star", "moon", "sun", "comet", "galaxy", "planet",
		"valley", "peak", "canyon", "meadow", "grove", "spring", "waterfall", "lake",
	}

	verbs = []string{
		"flies", "runs", "leaps", "soars", "dives", "climbs", "swims", "hunts",
		"rests", "guards", "watches", "seeks", "finds", "builds", "grows", "shines",
		"glows", "moves", "stands", "waits", "rises", "falls", "turns", "spins",
		"flows", "burns", "melts", "freezes", "breaks", "heals", "creates", "destroys",
	}

	adverbs = []string{
		"high", "fast", "slow", "well", "far", "near", "deep", "wide",
		"soft", "hard", "bright", "dark", "quiet", "loud", "free", "true",
		"bold", "wise", "swift", "strong", "gentle", "fierce", "calm", "wild",
		"proud", "humble", "grand", "small", "great", "tiny", "vast", "narrow",
	}
)

// Name deterministically derives a 4-word name plus an 8-hex-char suffix
// from hash. It depends only on hash bytes, never on wall-clock time or
// process state, so two replicas converged on the same bitter end always
// print the same name.
func Name(hash [32]byte) string {
	seed := binary.LittleEndian.Uint64(hash[:8])
	r := rand.New(rand.NewSource(int64(seed)))

	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]
	verb := verbs[r.Intn(len(verbs))]
	adv := adverbs[r.Intn(len(adverbs))]
	shortHash := hex.EncodeToString(hash[:4])

	return fmt.Sprintf("%s-%s-%s-%s-%s", adj, noun, verb, adv, shortHash)
}

// ShortHash extracts the 8-character hex suffix from a name produced by
// Name, reporting whether name has that shape.
func ShortHash(name string) (string, bool) {
	parts := strings.Split(name, "-")
	if len(parts) < 2 {
		return "", false
	}
	last := parts[len(parts)-1]
	if len(last) != 8 {
		return "", false
	}
	if _, err := hex.DecodeString(last); err != nil {
		return "", false
	}
	return last, true
}
