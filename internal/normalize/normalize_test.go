package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalize_Lowercase(t *testing.T) {
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing"))
	assert.Equal(t, "acme staffing", Normalize("ACME STAFFING"))
}

func TestNormalize_StripLLC(t *testing.T) {
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing LLC"))
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing L.L.C."))
}

func TestNormalize_StripInc(t *testing.T) {
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing Inc"))
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing Inc."))
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing Incorporated"))
}

func TestNormalize_StripCorp(t *testing.T) {
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing Corp"))
	assert.Equal(t, "acme staffing", Normalize("Acme Staffing Corporation"))
}

func TestNormalize_Punctuation(t *testing.T) {
	assert.Equal(t, "smith and jones", Normalize("Smith & Jones"))
	assert.Equal(t, "joes plumbing", Normalize("Joe's Plumbing"))
}

func TestNormalize_DashToSpace(t *testing.T) {
	assert.Equal(t, "wal mart", Normalize("Wal-Mart"))
}

func TestNormalize_CollapseSpaces(t *testing.T) {
	assert.Equal(t, "acme staffing", Normalize("  Acme   Staffing  "))
}

func TestNormalize_Diacritics(t *testing.T) {
	assert.Equal(t, "cafe rouge", Normalize("Café Rougé Ltd"))
}

func TestNormalize_Combined(t *testing.T) {
	assert.Equal(t, "raymond james and associates", Normalize("Raymond James & Associates, Inc."))
}

func TestNormalize_OnlySuffix(t *testing.T) {
	// Suffixes require a space prefix, so a bare suffix is preserved.
	assert.Equal(t, "llc", Normalize("LLC"))
}

func TestNormalizeForPhonetic_DropsDigits(t *testing.T) {
	assert.Equal(t, "eleven", NormalizeForPhonetic("7-Eleven"))
	assert.Equal(t, "motel", NormalizeForPhonetic("Motel 6"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"home", "depot"}, Tokenize("Home Depot, Inc."))
	assert.Equal(t, []string{"wal", "mart"}, Tokenize("Wal-Mart"))
	assert.Nil(t, Tokenize("   "))
}

func TestNewWithRules_ExtraSuffix(t *testing.T) {
	n := NewWithRules(&Rules{ExtraSuffixes: []string{"GmbH"}})
	assert.Equal(t, "acme staffing", n.Normalize("Acme Staffing GmbH"))
}

func TestNewWithRules_Replacements(t *testing.T) {
	n := NewWithRules(&Rules{Replacements: map[string]string{"intl": "international"}})
	assert.Equal(t, "acme international", n.Normalize("Acme Intl"))
}

func TestNewWithRules_Nil(t *testing.T) {
	n := NewWithRules(nil)
	assert.Equal(t, "acme staffing", n.Normalize("Acme Staffing LLC"))
}
