package match

import "github.com/sells-group/employer-resolve/internal/normalize"

// DefaultHybridThreshold is the Jaro-Winkler cutoff for HybridMatch.
const DefaultHybridThreshold = 0.85

// MatchResult records one pairwise match decision with enough context to
// audit it. It is observational output only, never engine state.
type MatchResult struct {
	Algorithm   string  `json:"algorithm"`
	NameA       string  `json:"name_a"`
	NameB       string  `json:"name_b"`
	NormalizedA string  `json:"normalized_a"`
	NormalizedB string  `json:"normalized_b"`
	KeyA        string  `json:"key_a,omitempty"`
	KeyB        string  `json:"key_b,omitempty"`
	Score       float64 `json:"score,omitempty"`
	IsMatch     bool    `json:"is_match"`
}

// MatchByKey matches two names by generated key. A match requires both
// keys to be non-empty and identical.
func MatchByKey(a, b string, gen KeyGenerator) MatchResult {
	keyA, keyB := gen.GenerateKey(a), gen.GenerateKey(b)
	return MatchResult{
		Algorithm:   gen.Name(),
		NameA:       a,
		NameB:       b,
		NormalizedA: normalize.Normalize(a),
		NormalizedB: normalize.Normalize(b),
		KeyA:        keyA,
		KeyB:        keyB,
		IsMatch:     keyA != "" && keyA == keyB,
	}
}

// MatchByScore matches two names by similarity score against a threshold.
func MatchByScore(a, b string, scorer SimilarityScorer, threshold float64) MatchResult {
	score := scorer.Compare(a, b)
	return MatchResult{
		Algorithm:   scorer.Name(),
		NameA:       a,
		NameB:       b,
		NormalizedA: normalize.Normalize(a),
		NormalizedB: normalize.Normalize(b),
		Score:       score,
		IsMatch:     score >= threshold,
	}
}

// HybridMatch is the primary boolean decision entry point: true when the
// metaphone keys of a and b are both non-empty and equal, or when the
// Jaro-Winkler score reaches threshold. Pass DefaultHybridThreshold
// unless the caller has tuned its own cutoff.
func HybridMatch(a, b string, threshold float64) bool {
	keyA, keyB := MetaphoneKey.GenerateKey(a), MetaphoneKey.GenerateKey(b)
	if keyA != "" && keyA == keyB {
		return true
	}
	return JaroWinklerScorer.Compare(a, b) >= threshold
}
