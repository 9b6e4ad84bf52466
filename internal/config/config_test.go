package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "4o", cfg.Model)
	assert.Equal(t, 7, cfg.QuestionBudget)
	assert.Equal(t, 2, cfg.FollowUpBudget)
	assert.Equal(t, 5, cfg.DefaultQuestions)
	assert.False(t, cfg.AlwaysRegenerate)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: sonnet\nquestion_budget: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sonnet", cfg.Model)
	assert.Equal(t, 5, cfg.QuestionBudget)
	assert.Equal(t, 2, cfg.FollowUpBudget, "unset keys keep defaults")
}

func TestLoadBreakpoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := `breakpoints:
  - max_minutes: 30
    questions: 3
  - max_minutes: 60
    questions: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Breakpoint{
		{MaxMinutes: 30, Questions: 3},
		{MaxMinutes: 60, Questions: 5},
	}, cfg.Breakpoints)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: sonnet\n"), 0o644))
	t.Setenv("DIDACT_MODEL", "gem-flash")
	t.Setenv("DIDACT_VERBOSE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gem-flash", cfg.Model)
	assert.True(t, cfg.Verbose)
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "question_budget", envTransform("DIDACT_QUESTION_BUDGET"))
}
