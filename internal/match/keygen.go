package match

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/sells-group/employer-resolve/internal/normalize"
)

// KeyGenerator produces a deterministic short code for a name. Two names
// match by key when both codes are non-empty and identical.
type KeyGenerator interface {
	Name() string
	Description() string
	GenerateKey(name string) string
}

// Generators, in registry order.
var (
	MetaphoneKey  KeyGenerator = metaphoneKeyGen{}
	SoundexKey    KeyGenerator = soundexKeyGen{}
	NormalizedKey KeyGenerator = normalizedKeyGen{}
)

// KeyGenerators returns the closed set of key generation strategies.
func KeyGenerators() []KeyGenerator {
	return []KeyGenerator{MetaphoneKey, SoundexKey, NormalizedKey}
}

// keyJoin separates per-word codes within one key.
const keyJoin = "_"

type metaphoneKeyGen struct{}

func (metaphoneKeyGen) Name() string { return "metaphone" }
func (metaphoneKeyGen) Description() string {
	return "primary double-metaphone code per word, joined with underscores"
}

// GenerateKey encodes each phonetically-normalized word with its primary
// double-metaphone code. Names that normalize to nothing yield "".
func (metaphoneKeyGen) GenerateKey(name string) string {
	words := strings.Fields(normalize.NormalizeForPhonetic(name))
	codes := make([]string, 0, len(words))
	for _, w := range words {
		primary, _ := matchr.DoubleMetaphone(w)
		if primary != "" {
			codes = append(codes, primary)
		}
	}
	return strings.Join(codes, keyJoin)
}

type soundexKeyGen struct{}

func (soundexKeyGen) Name() string { return "soundex" }
func (soundexKeyGen) Description() string {
	return "classic soundex consonant code per word, joined with underscores"
}

func (soundexKeyGen) GenerateKey(name string) string {
	words := strings.Fields(normalize.NormalizeForPhonetic(name))
	codes := make([]string, 0, len(words))
	for _, w := range words {
		if code := matchr.Soundex(w); code != "" {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, keyJoin)
}

type normalizedKeyGen struct{}

func (normalizedKeyGen) Name() string { return "normalized" }
func (normalizedKeyGen) Description() string {
	return "normalized name with whitespace removed; control group for phonetic encoding"
}

func (normalizedKeyGen) GenerateKey(name string) string {
	return strings.ReplaceAll(normalize.Normalize(name), " ", "")
}
