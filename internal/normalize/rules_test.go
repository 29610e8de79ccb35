package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `
extra_suffixes:
  - gmbh
  - " s.a."
replacements:
  intl: international
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gmbh", " s.a."}, rules.ExtraSuffixes)
	assert.Equal(t, "international", rules.Replacements["intl"])

	n := NewWithRules(rules)
	assert.Equal(t, "siemens", n.Normalize("Siemens GmbH"))
	assert.Equal(t, "acme international", n.Normalize("Acme Intl"))
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRules_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extra_suffixes: {not a list"), 0644))

	_, err := LoadRules(path)
	require.Error(t, err)
}

func TestSetDefault_SwapsPackageNormalizer(t *testing.T) {
	orig := defaultNormalizer
	t.Cleanup(func() { defaultNormalizer = orig })

	SetDefault(NewWithRules(&Rules{ExtraSuffixes: []string{"gmbh"}}))
	assert.Equal(t, "siemens", Normalize("Siemens GmbH"))

	SetDefault(nil) // no-op
	assert.Equal(t, "siemens", Normalize("Siemens GmbH"))
}
