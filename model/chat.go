package model

import (
	"fmt"
	"sort"

	ai "github.com/didactlabs/didact"
)

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	alias    string
	provider ai.Provider
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Alias returns the short selection alias for this model.
func (m ChatModel) Alias() string { return m.alias }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// OpenAI models.
var (
	O3        = ChatModel{id: "o3", alias: "o3", provider: ai.ProviderOpenAI}
	O3Mini    = ChatModel{id: "o3-mini", alias: "o3-m", provider: ai.ProviderOpenAI}
	O4Mini    = ChatModel{id: "o4-mini", alias: "o4-m", provider: ai.ProviderOpenAI}
	GPT4o     = ChatModel{id: "gpt-4o", alias: "4o", provider: ai.ProviderOpenAI}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", alias: "4o-m", provider: ai.ProviderOpenAI}
	GPT41     = ChatModel{id: "gpt-4.1", alias: "4.1", provider: ai.ProviderOpenAI}
	GPT41Mini = ChatModel{id: "gpt-4.1-mini", alias: "4.1-m", provider: ai.ProviderOpenAI}
	GPT41Nano = ChatModel{id: "gpt-4.1-nano", alias: "4.1-n", provider: ai.ProviderOpenAI}
	GPT5      = ChatModel{id: "gpt-5", alias: "5", provider: ai.ProviderOpenAI}
	GPT5Mini  = ChatModel{id: "gpt-5-mini", alias: "5-m", provider: ai.ProviderOpenAI}
	GPT5Nano  = ChatModel{id: "gpt-5-nano", alias: "5-n", provider: ai.ProviderOpenAI}
)

// Anthropic models.
var (
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", alias: "sonnet", provider: ai.ProviderAnthropic}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", alias: "haiku", provider: ai.ProviderAnthropic}
)

// Google models.
var (
	Gemini25Pro   = ChatModel{id: "gemini-2.5-pro", alias: "gem-pro", provider: ai.ProviderGoogle}
	Gemini25Flash = ChatModel{id: "gemini-2.5-flash", alias: "gem-flash", provider: ai.ProviderGoogle}
)

// Default is the model used when a session does not select one.
var Default = GPT4o

// allowList holds every model a session may select.
var allowList = []ChatModel{
	O3, O3Mini, O4Mini,
	GPT4o, GPT4oMini,
	GPT41, GPT41Mini, GPT41Nano,
	GPT5, GPT5Mini, GPT5Nano,
	ClaudeSonnet45, ClaudeHaiku45,
	Gemini25Pro, Gemini25Flash,
}

// All returns the allow-list sorted by alias.
func All() []ChatModel {
	models := make([]ChatModel, len(allowList))
	copy(models, allowList)
	sort.Slice(models, func(i, j int) bool { return models[i].alias < models[j].alias })
	return models
}

// Lookup resolves a short alias or full API identifier to a model from the
// allow-list. It returns an error for anything outside the allow-list.
func Lookup(name string) (ChatModel, error) {
	for _, m := range allowList {
		if m.alias == name || m.id == name {
			return m, nil
		}
	}
	return ChatModel{}, fmt.Errorf("model: %q is not in the allow-list", name)
}
