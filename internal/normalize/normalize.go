// Package normalize canonicalizes raw employer names before matching.
// Two variants are exposed: Normalize for general string comparison and
// NormalizeForPhonetic for phonetic encoding, which additionally drops
// digits since phonetic codes only cover letters.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes lists common legal entity suffixes to strip during name
// normalization. Matched against the end of the lowercased name; the
// leading space prevents stripping names that are only a suffix.
var legalSuffixes = []string{
	" llc", " l.l.c.", " l.l.c",
	" inc", " inc.", " incorporated",
	" corp", " corp.", " corporation",
	" ltd", " ltd.", " limited",
	" lp", " l.p.", " l.p",
	" llp", " l.l.p.", " l.l.p",
	" pc", " p.c.", " p.c",
	" pa", " p.a.", " p.a",
	" co", " co.", " company",
	" plc", " p.l.c.",
	" na", " n.a.", " n.a",
	" dba", " d/b/a",
	" pllc",
}

var (
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	punctRe      = regexp.MustCompile(`[^a-z0-9 ]`)
	digitRe      = regexp.MustCompile(`[0-9]`)

	// NFD decompose, drop combining marks, recompose. Turns "Café" into "Cafe".
	diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalizer applies a configurable normalization pipeline. The zero-config
// default (package-level Normalize) covers US legal suffixes; a Rules file
// can extend the suffix and replacement lists.
type Normalizer struct {
	suffixes     []string
	replacements map[string]string
}

// New returns a Normalizer with the default suffix list and no extra
// replacements.
func New() *Normalizer {
	return &Normalizer{suffixes: legalSuffixes}
}

var defaultNormalizer = New()

// Normalize standardizes an employer name for matching:
//  1. Fold diacritics and lowercase
//  2. Strip one trailing legal suffix (llc, inc, corp, ...)
//  3. Replace "&" with "and" and dashes with spaces
//  4. Strip remaining punctuation
//  5. Collapse runs of whitespace
func Normalize(name string) string { return defaultNormalizer.Normalize(name) }

// NormalizeForPhonetic is Normalize with digits removed, tuned for
// metaphone/soundex encoding.
func NormalizeForPhonetic(name string) string {
	return defaultNormalizer.NormalizeForPhonetic(name)
}

// Tokenize splits a name into its normalized non-empty words.
func Tokenize(name string) []string { return defaultNormalizer.Tokenize(name) }

// Normalize applies the full pipeline using this Normalizer's rules.
func (n *Normalizer) Normalize(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(diacritics, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimRight(s, " ,.")

	// Strip one trailing legal suffix while punctuation is still present so
	// dotted forms ("l.l.c.") match.
	for _, suffix := range n.suffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}

	for from, to := range n.replacements {
		s = strings.ReplaceAll(s, from, to)
	}
	s = strings.NewReplacer(
		"&", " and ",
		"-", " ",
		"/", " ",
	).Replace(s)

	s = punctRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeForPhonetic applies Normalize and then removes digits.
func (n *Normalizer) NormalizeForPhonetic(name string) string {
	s := digitRe.ReplaceAllString(n.Normalize(name), "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize returns the normalized words of a name, in order. Blank input
// yields a nil slice.
func (n *Normalizer) Tokenize(name string) []string {
	s := n.Normalize(name)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
