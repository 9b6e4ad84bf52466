package didact

// Provider identifies a text-generation provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// Model identifies a chat model and the provider it belongs to.
// Concrete models live in the model package's allow-list.
type Model interface {
	// String returns the API identifier for the model.
	String() string

	// Provider returns which provider serves the model.
	Provider() Provider
}
