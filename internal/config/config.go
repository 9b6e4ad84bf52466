// Package config loads the CLI configuration with koanf.
// Priority: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables, e.g. DIDACT_MODEL.
const envPrefix = "DIDACT_"

// Config holds the CLI settings.
type Config struct {
	// Model is the alias or id of the chat model used for the session.
	Model string `koanf:"model"`

	// QuestionBudget is the number of core context-gathering questions.
	QuestionBudget int `koanf:"question_budget"`

	// FollowUpBudget is the number of clarifying follow-ups allowed.
	FollowUpBudget int `koanf:"follow_up_budget"`

	// AlwaysRegenerate disables derived-artifact caching.
	AlwaysRegenerate bool `koanf:"always_regenerate"`

	// DefaultQuestions is the assessment question count fallback.
	DefaultQuestions int `koanf:"default_questions"`

	// Breakpoints maps course duration ceilings to assessment question
	// counts. Empty means one question per ten minutes.
	Breakpoints []Breakpoint `koanf:"breakpoints"`

	// Database is the SQLite path for saved projects.
	Database string `koanf:"database"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Breakpoint is one step of the duration-based assessment estimate: courses
// up to MaxMinutes long get Questions questions.
type Breakpoint struct {
	MaxMinutes int `koanf:"max_minutes"`
	Questions  int `koanf:"questions"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"model":             "4o",
		"question_budget":   7,
		"follow_up_budget":  2,
		"always_regenerate": false,
		"default_questions": 5,
		"database":          "didact.db",
		"verbose":           false,
	}
}

// DefaultPath returns the user config file path
// (~/.config/didact/config.yml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "didact", "config.yml")
}

// Load reads the configuration. path selects the config file; empty means
// DefaultPath, and a missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, err
		}
	}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// envTransform maps DIDACT_QUESTION_BUDGET to question_budget.
func envTransform(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, envPrefix))
}
