// Package match implements the employer-name entity-resolution engine:
// deterministic phonetic/string key generation, pairwise similarity
// scoring, and MinHash/LSH blocking that narrows candidate retrieval from
// a full pairwise scan to a handful of bucket lookups per name.
//
// The engine is pure, synchronous computation. The only stateful object is
// the BlockingIndex, built once per batch and queried per incoming name.
package match

// Config controls shingling, signature, and banding parameters. Values are
// assumed well-formed; the engine performs no runtime validation on them.
//
// Rows per band is NumHashes / Bands rounded down; trailing signature
// positions beyond Bands*rows are dropped. With the defaults (128/16) the
// split is exact.
type Config struct {
	NumHashes   int // signature length
	Bands       int // LSH bands per signature
	ShingleSize int // character n-gram width for character/hybrid shingling
}

// DefaultConfig returns the production configuration: 128 hashes split
// into 16 bands of 8 rows, 3-character shingles.
func DefaultConfig() Config {
	return Config{NumHashes: 128, Bands: 16, ShingleSize: 3}
}
