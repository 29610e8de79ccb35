package match

import (
	"strconv"

	"github.com/rotisserie/eris"
)

// ErrLengthMismatch is returned when two signatures of different lengths
// are compared. Signatures are only comparable when produced under the
// same NumHashes; silently truncating would report a wrong similarity.
var ErrLengthMismatch = eris.New("match: signature length mismatch")

// BlockingKeys derives the LSH blocking keys for a name under the default
// word-normalized shingling. The signature is split into cfg.Bands
// contiguous groups of floor(NumHashes/Bands) rows; trailing positions
// beyond bands*rows are dropped. Each band hashes to one key of the form
// "b<band>_<base36>"; the band prefix keeps keys from different bands
// distinct even on hash coincidence.
//
// Blank or whitespace-only names yield no keys; all other names yield
// exactly cfg.Bands keys.
func BlockingKeys(name string, cfg Config) []string {
	shingles := Shingles(name, DefaultStrategy, cfg.ShingleSize)
	if len(shingles) == 0 {
		return nil
	}
	return bandKeys(ComputeSignature(shingles, cfg.NumHashes), cfg.Bands)
}

// bandKeys splits sig into bands groups and hashes each group into a key.
func bandKeys(sig Signature, bands int) []string {
	rows := len(sig) / bands
	keys := make([]string, 0, bands)
	for b := 0; b < bands; b++ {
		h := bandHash(sig[b*rows : (b+1)*rows])
		keys = append(keys, "b"+strconv.Itoa(b)+"_"+strconv.FormatUint(uint64(h), 36))
	}
	return keys
}

// bandHash combines one band's rows with an order-sensitive mixer
// (xor, wrapping multiply by 0x9e3779b9, shift-xor by 16).
func bandHash(band Signature) uint32 {
	var h uint32
	for _, v := range band {
		h ^= v
		h *= 0x9e3779b9
		h ^= h >> 16
	}
	return h
}

// BlockingIndex maps blocking keys to the set of names bucketed under
// them. It is append-only and scoped to one batch run: build it over the
// batch's names, then query per incoming name. Not safe for concurrent
// mutation; shard with BuildIndexParallel instead.
type BlockingIndex struct {
	cfg     Config
	buckets map[string]map[string]struct{}
}

// NewBlockingIndex returns an empty index for the given configuration.
func NewBlockingIndex(cfg Config) *BlockingIndex {
	return &BlockingIndex{cfg: cfg, buckets: make(map[string]map[string]struct{})}
}

// BuildIndex indexes every name in names. Blank names produce no keys and
// are excluded. Insertion is idempotent.
func BuildIndex(names []string, cfg Config) *BlockingIndex {
	idx := NewBlockingIndex(cfg)
	for _, name := range names {
		idx.Add(name)
	}
	return idx
}

// Add inserts one name into every bucket its blocking keys select.
func (idx *BlockingIndex) Add(name string) {
	for _, key := range BlockingKeys(name, idx.cfg) {
		bucket, ok := idx.buckets[key]
		if !ok {
			bucket = make(map[string]struct{})
			idx.buckets[key] = bucket
		}
		bucket[name] = struct{}{}
	}
}

// Merge unions other's buckets into idx. Merging is associative and
// commutative, so partial indices built over disjoint name shards can be
// combined in any order.
func (idx *BlockingIndex) Merge(other *BlockingIndex) {
	for key, names := range other.buckets {
		bucket, ok := idx.buckets[key]
		if !ok {
			bucket = make(map[string]struct{}, len(names))
			idx.buckets[key] = bucket
		}
		for name := range names {
			bucket[name] = struct{}{}
		}
	}
}

// FindCandidates returns the union of the buckets selected by name's own
// blocking keys, minus name itself. The result is the bounded candidate
// set to score instead of the whole corpus.
func (idx *BlockingIndex) FindCandidates(name string) map[string]struct{} {
	candidates := make(map[string]struct{})
	for _, key := range BlockingKeys(name, idx.cfg) {
		for candidate := range idx.buckets[key] {
			if candidate != name {
				candidates[candidate] = struct{}{}
			}
		}
	}
	return candidates
}

// Keys returns the number of distinct blocking keys in the index.
func (idx *BlockingIndex) Keys() int { return len(idx.buckets) }

// BucketSizes returns the size of every bucket, keyed by blocking key.
// Used for index statistics and tuning.
func (idx *BlockingIndex) BucketSizes() map[string]int {
	sizes := make(map[string]int, len(idx.buckets))
	for key, names := range idx.buckets {
		sizes[key] = len(names)
	}
	return sizes
}

// AreBlockingCandidates reports whether two names share at least one
// blocking key. It is the symmetric two-name fast path that needs no
// prebuilt index.
func AreBlockingCandidates(a, b string, cfg Config) bool {
	keysA := BlockingKeys(a, cfg)
	if len(keysA) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(keysA))
	for _, k := range keysA {
		seen[k] = struct{}{}
	}
	for _, k := range BlockingKeys(b, cfg) {
		if _, ok := seen[k]; ok {
			return true
		}
	}
	return false
}

// EstimateSimilarity returns the fraction of positions where the two
// signatures agree. Signatures of different lengths are not comparable
// and produce ErrLengthMismatch.
func EstimateSimilarity(a, b Signature) (float64, error) {
	if len(a) != len(b) {
		return 0, eris.Wrapf(ErrLengthMismatch, "len %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(a)), nil
}
