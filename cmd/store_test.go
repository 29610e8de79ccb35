package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_SQLite(t *testing.T) {
	cfg = testConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "test.db")

	st, err := openStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close() //nolint:errcheck
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg = testConfig()
	cfg.Store.Driver = "mysql"

	st, err := openStore(context.Background())
	assert.Nil(t, st)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestMatchConfig_FromConfig(t *testing.T) {
	cfg = testConfig()

	mc := matchConfig()
	assert.Equal(t, 128, mc.NumHashes)
	assert.Equal(t, 32, mc.Bands)
	assert.Equal(t, 3, mc.ShingleSize)
}
