package normalize

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules extends the default normalization with deployment-specific suffixes
// and literal replacements, loaded from a YAML file. Suffixes are matched
// at the end of the lowercased name; replacements run before punctuation
// stripping.
type Rules struct {
	ExtraSuffixes []string          `yaml:"extra_suffixes"`
	Replacements  map[string]string `yaml:"replacements"`
}

// LoadRules reads normalization rules from a YAML file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read rules %s", path)
	}

	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrapf(err, "normalize: parse rules %s", path)
	}
	return &r, nil
}

// NewWithRules returns a Normalizer whose suffix list is the default list
// plus the rules' extra suffixes, and whose replacements come from the
// rules file. Extra suffixes are lowercased and space-prefixed if needed.
func NewWithRules(r *Rules) *Normalizer {
	n := New()
	if r == nil {
		return n
	}

	for _, s := range r.ExtraSuffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, " ") {
			s = " " + s
		}
		n.suffixes = append(n.suffixes, s)
	}

	if len(r.Replacements) > 0 {
		n.replacements = make(map[string]string, len(r.Replacements))
		for from, to := range r.Replacements {
			n.replacements[strings.ToLower(from)] = strings.ToLower(to)
		}
	}
	return n
}

// SetDefault installs n as the normalizer behind the package-level
// Normalize functions. Call once at startup, before any matching; the
// package-level functions are not synchronized against it.
func SetDefault(n *Normalizer) {
	if n != nil {
		defaultNormalizer = n
	}
}
