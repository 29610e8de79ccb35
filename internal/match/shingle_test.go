package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShingles_WordNormalized(t *testing.T) {
	set := Shingles("Home Depot", ShingleWordNormalized, 3)
	assert.Contains(t, set, "home")
	assert.Contains(t, set, "depot")
	assert.Contains(t, set, "homedepot")
	assert.Len(t, set, 3)
}

func TestShingles_WordNormalized_JoinedFormOverlap(t *testing.T) {
	// The joined-form shingle is what gives "Home Depot" and "HomeDepot"
	// a shared shingle at all.
	a := Shingles("Home Depot", ShingleWordNormalized, 3)
	b := Shingles("HomeDepot", ShingleWordNormalized, 3)
	assert.Contains(t, a, "homedepot")
	assert.Contains(t, b, "homedepot")
}

func TestShingles_Word(t *testing.T) {
	set := Shingles("Home Depot Inc.", ShingleWord, 3)
	assert.Equal(t, ShingleSet{"home": {}, "depot": {}}, set)
}

func TestShingles_Character(t *testing.T) {
	set := Shingles("abc", ShingleCharacter, 3)
	// padded " abc " => " ab", "abc", "bc "
	assert.Equal(t, ShingleSet{" ab": {}, "abc": {}, "bc ": {}}, set)
}

func TestShingles_Character_ShorterThanWindow(t *testing.T) {
	set := Shingles("ab", ShingleCharacter, 5)
	assert.Equal(t, ShingleSet{" ab ": {}}, set)
}

func TestShingles_Hybrid(t *testing.T) {
	set := Shingles("Wal-Mart", ShingleHybrid, 3)
	assert.Contains(t, set, "w:wal")
	assert.Contains(t, set, "w:mart")
	assert.Contains(t, set, "c:wal")
	assert.Contains(t, set, "c:mar")
	assert.Contains(t, set, "c:art")
}

func TestShingles_Blank(t *testing.T) {
	for _, strategy := range []ShingleStrategy{
		ShingleCharacter, ShingleWord, ShingleWordNormalized, ShingleHybrid,
	} {
		assert.Empty(t, Shingles("   ", strategy, 3), string(strategy))
		assert.Empty(t, Shingles("", strategy, 3), string(strategy))
	}
}

func TestShingles_Deterministic(t *testing.T) {
	a := Shingles("Raymond James & Associates, Inc.", ShingleHybrid, 3)
	b := Shingles("Raymond James & Associates, Inc.", ShingleHybrid, 3)
	assert.Equal(t, a, b)
}
