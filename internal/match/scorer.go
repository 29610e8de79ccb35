package match

import (
	"strings"

	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"

	"github.com/sells-group/employer-resolve/internal/normalize"
)

// SimilarityScorer computes a deterministic pairwise similarity in [0,1].
type SimilarityScorer interface {
	Name() string
	Description() string
	Compare(a, b string) float64
}

// Scorers, in registry order.
var (
	JaroWinklerScorer SimilarityScorer = jaroWinklerScorer{}
	LevenshteinScorer SimilarityScorer = levenshteinScorer{}
	DiceScorer        SimilarityScorer = diceScorer{}
	JaccardScorer     SimilarityScorer = jaccardScorer{}
	CombinedScorer    SimilarityScorer = combinedScorer{}
)

// SimilarityScorers returns the closed set of scoring strategies.
func SimilarityScorers() []SimilarityScorer {
	return []SimilarityScorer{
		JaroWinklerScorer, LevenshteinScorer, DiceScorer, JaccardScorer, CombinedScorer,
	}
}

type jaroWinklerScorer struct{}

func (jaroWinklerScorer) Name() string { return "jaro_winkler" }
func (jaroWinklerScorer) Description() string {
	return "prefix-weighted edit similarity over normalized names"
}

func (jaroWinklerScorer) Compare(a, b string) float64 {
	na, nb := normalize.Normalize(a), normalize.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return matchr.JaroWinkler(na, nb, false)
}

type levenshteinScorer struct{}

func (levenshteinScorer) Name() string { return "levenshtein" }
func (levenshteinScorer) Description() string {
	return "1 - editDistance/maxLen over normalized names"
}

func (levenshteinScorer) Compare(a, b string) float64 {
	na, nb := normalize.Normalize(a), normalize.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(levenshtein.ComputeDistance(na, nb))/float64(maxLen)
}

type diceScorer struct{}

func (diceScorer) Name() string { return "dice" }
func (diceScorer) Description() string {
	return "Sorensen-Dice bigram overlap over normalized names"
}

var sorensenDice = metrics.NewSorensenDice()

func (diceScorer) Compare(a, b string) float64 {
	na, nb := normalize.Normalize(a), normalize.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return sorensenDice.Compare(na, nb)
}

type jaccardScorer struct{}

func (jaccardScorer) Name() string { return "jaccard" }
func (jaccardScorer) Description() string {
	return "word-token intersection over union, on raw tokens"
}

// Compare works on raw whitespace tokens rather than normalized strings:
// token identity is the unit of comparison here, not spelling distance.
func (jaccardScorer) Compare(a, b string) float64 {
	tokensA, tokensB := strings.Fields(a), strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	shared := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

type combinedScorer struct{}

func (combinedScorer) Name() string { return "combined" }
func (combinedScorer) Description() string {
	return "arithmetic mean of jaro_winkler, levenshtein, and dice"
}

func (combinedScorer) Compare(a, b string) float64 {
	sum := JaroWinklerScorer.Compare(a, b) +
		LevenshteinScorer.Compare(a, b) +
		DiceScorer.Compare(a, b)
	return sum / 3
}
