package match

import (
	"strings"

	"github.com/sells-group/employer-resolve/internal/normalize"
)

// ShingleSet is an immutable set of substrings extracted from one name.
type ShingleSet map[string]struct{}

// ShingleStrategy selects how a normalized name is decomposed into shingles.
type ShingleStrategy string

const (
	// ShingleCharacter slides an n-character window over the space-padded
	// normalized name. The padding captures word-boundary effects.
	ShingleCharacter ShingleStrategy = "character"

	// ShingleWord emits each normalized word as one shingle.
	ShingleWord ShingleStrategy = "word"

	// ShingleWordNormalized emits each normalized word plus the fully
	// space-stripped joined form of the whole name. The joined form is what
	// lets "Home Depot" and "HomeDepot" land in the same band. This is the
	// production default.
	ShingleWordNormalized ShingleStrategy = "word_normalized"

	// ShingleHybrid emits each word tagged "w:" plus every character n-gram
	// of each word tagged "c:", combining word-level semantics with typo
	// tolerance.
	ShingleHybrid ShingleStrategy = "hybrid"
)

// DefaultStrategy is the shingling strategy used for blocking keys.
const DefaultStrategy = ShingleWordNormalized

// Shingles extracts the shingle set for a name under the given strategy.
// Names that normalize to nothing yield an empty set.
func Shingles(name string, strategy ShingleStrategy, size int) ShingleSet {
	set := make(ShingleSet)

	switch strategy {
	case ShingleCharacter:
		padded := " " + normalize.Normalize(name) + " "
		if strings.TrimSpace(padded) == "" {
			return set
		}
		addNgrams(set, "", padded, size)

	case ShingleWord:
		for _, w := range normalize.Tokenize(name) {
			set[w] = struct{}{}
		}

	case ShingleWordNormalized:
		words := normalize.Tokenize(name)
		for _, w := range words {
			set[w] = struct{}{}
		}
		if len(words) > 0 {
			set[strings.Join(words, "")] = struct{}{}
		}

	case ShingleHybrid:
		for _, w := range normalize.Tokenize(name) {
			set["w:"+w] = struct{}{}
			addNgrams(set, "c:", w, size)
		}
	}

	return set
}

// addNgrams adds every n-character window of s to the set, prefixed with
// tag. Strings shorter than n contribute a single whole-string shingle.
func addNgrams(set ShingleSet, tag, s string, n int) {
	runes := []rune(s)
	if len(runes) < n {
		set[tag+s] = struct{}{}
		return
	}
	for i := 0; i+n <= len(runes); i++ {
		set[tag+string(runes[i:i+n])] = struct{}{}
	}
}
