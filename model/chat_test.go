package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/didactlabs/didact"
)

func TestLookup(t *testing.T) {
	t.Run("resolves short alias", func(t *testing.T) {
		m, err := Lookup("4o-m")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", m.String())
		assert.Equal(t, ai.ProviderOpenAI, m.Provider())
	})

	t.Run("resolves full identifier", func(t *testing.T) {
		m, err := Lookup("claude-sonnet-4-5")
		require.NoError(t, err)
		assert.Equal(t, "sonnet", m.Alias())
		assert.Equal(t, ai.ProviderAnthropic, m.Provider())
	})

	t.Run("rejects models outside the allow-list", func(t *testing.T) {
		_, err := Lookup("gpt-3.5-turbo")
		assert.Error(t, err)
	})
}

func TestAll(t *testing.T) {
	models := All()
	require.NotEmpty(t, models)

	// Sorted by alias, and every entry resolves back through Lookup.
	for i := 1; i < len(models); i++ {
		assert.LessOrEqual(t, models[i-1].Alias(), models[i].Alias())
	}
	for _, m := range models {
		resolved, err := Lookup(m.Alias())
		require.NoError(t, err)
		assert.Equal(t, m, resolved)
	}
}

func TestDefaultIsAllowed(t *testing.T) {
	_, err := Lookup(Default.String())
	assert.NoError(t, err)
}
