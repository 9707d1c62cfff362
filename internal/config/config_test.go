package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typelang/typc/internal/config"
)

func TestDefaultNames(t *testing.T) {
	names := config.DefaultNames()
	assert.Equal(t, "UTerm", names.UTerm)
	assert.Equal(t, "PInt", names.PInt)
	assert.Equal(t, "True", names.True)
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := config.Parse([]byte(`
names:
  uterm: T0
  b1: I
prelude:
  - use crate::num::*;
`))
	require.NoError(t, err)

	// Overridden fields apply, the rest keep their defaults.
	assert.Equal(t, "T0", cfg.Names.UTerm)
	assert.Equal(t, "I", cfg.Names.B1)
	assert.Equal(t, "UInt", cfg.Names.UInt)
	assert.Equal(t, "False", cfg.Names.False)

	assert.Equal(t, []string{"use crate::num::*;"}, cfg.Prelude)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultNames(), cfg.Names)
	assert.Empty(t, cfg.Prelude)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("names: [not a map"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("does-not-exist.yaml")
	assert.Error(t, err)
}
