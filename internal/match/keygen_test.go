package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyGenerators_Registry(t *testing.T) {
	gens := KeyGenerators()
	assert.Len(t, gens, 3)
	names := make([]string, 0, len(gens))
	for _, g := range gens {
		names = append(names, g.Name())
		assert.NotEmpty(t, g.Description())
	}
	assert.Equal(t, []string{"metaphone", "soundex", "normalized"}, names)
}

func TestMetaphoneKey_CaseAndPunctuationInsensitive(t *testing.T) {
	assert.Equal(t, MetaphoneKey.GenerateKey("Walmart"), MetaphoneKey.GenerateKey("WALMART"))
	assert.Equal(t, MetaphoneKey.GenerateKey("Smith & Co"), MetaphoneKey.GenerateKey("Smith and Co."))
}

func TestMetaphoneKey_Blank(t *testing.T) {
	assert.Equal(t, "", MetaphoneKey.GenerateKey(""))
	assert.Equal(t, "", MetaphoneKey.GenerateKey("   "))
}

func TestMetaphoneKey_SimilarSounding(t *testing.T) {
	// Phonetic encoding is the point: spelling variants of the same sound
	// share a key.
	assert.Equal(t, MetaphoneKey.GenerateKey("Smith"), MetaphoneKey.GenerateKey("Smyth"))
}

func TestSoundexKey_SimilarSounding(t *testing.T) {
	assert.Equal(t, SoundexKey.GenerateKey("Robert"), SoundexKey.GenerateKey("Rupert"))
	assert.Equal(t, "", SoundexKey.GenerateKey(""))
}

func TestSoundexKey_PerWordJoin(t *testing.T) {
	key := SoundexKey.GenerateKey("Acme Staffing")
	assert.Contains(t, key, keyJoin)
}

func TestNormalizedKey_StripsWhitespace(t *testing.T) {
	assert.Equal(t, "homedepot", NormalizedKey.GenerateKey("Home Depot"))
	assert.Equal(t, "homedepot", NormalizedKey.GenerateKey("HomeDepot Inc."))
	assert.Equal(t, "", NormalizedKey.GenerateKey("  "))
}

func TestNormalizedKey_ControlSemantics(t *testing.T) {
	// The baseline generator matches iff whitespace-stripped normalized
	// forms are identical; phonetic variation does not collapse.
	assert.NotEqual(t, NormalizedKey.GenerateKey("Smith"), NormalizedKey.GenerateKey("Smyth"))
}
