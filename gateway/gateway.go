// Package gateway provides a unified generation client over the OpenAI,
// Anthropic and Google backends.
//
// The gateway owns provider selection, lazy client initialization, retry on
// transient errors, and the default instructional-design system prompt.
// Callers that only need text completion can use Prompt; the full Generate
// method implements the didact.Generator interface so the workflow engine
// can be tested against a mock backend.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ai "github.com/didactlabs/didact"
	"github.com/didactlabs/didact/event"
	"github.com/didactlabs/didact/model"
	"github.com/didactlabs/didact/provider/anthropic"
	"github.com/didactlabs/didact/provider/google"
	"github.com/didactlabs/didact/provider/openai"
	"github.com/didactlabs/didact/retry"
)

// DefaultSystemPrompt frames every request unless overridden in Config.
const DefaultSystemPrompt = "You are a professional instructional design assistant."

// APIKeys holds API keys for the supported providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config holds configuration for creating a gateway client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// Model is the default model for requests. If nil, model.Default is used.
	// The model's provider determines which backend serves the request.
	Model ai.Model

	// SystemPrompt replaces DefaultSystemPrompt when non-empty.
	SystemPrompt string

	// RetryConfig configures retry behavior for transient errors.
	// If nil, retry.DefaultConfig is used.
	RetryConfig *retry.Config

	// Events is an optional channel for request lifecycle events.
	// Events are sent non-blocking; a full channel drops them.
	Events chan<- event.Event
}

// ErrMissingAPIKey is returned when a model is used but no API key
// is configured for that model's provider.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, ai.WithMaxTokens(n))
	}
}

// Client routes generation requests to the provider that serves the
// requested model. Provider clients are lazily initialized when first needed.
type Client struct {
	apiKeys      APIKeys
	model        ai.Model
	systemPrompt string
	retryConfig  retry.Config
	events       chan<- event.Event
	defaultOpts  []ai.Option

	// Lazy-initialized providers (protected by mutex)
	mu              sync.RWMutex
	anthropicClient *anthropic.Client
	openaiClient    *openai.Client
	googleClient    *google.Client
	googleInitErr   error
}

// New creates a gateway client with the given configuration.
// Provider clients are initialized on first use based on the model requested.
func New(cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	m := cfg.Model
	if m == nil {
		m = model.Default
	}
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	c := &Client{
		apiKeys:      cfg.APIKeys,
		model:        m,
		systemPrompt: systemPrompt,
		retryConfig:  retryConfig,
		events:       cfg.Events,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the client's default model.
func (c *Client) Model() ai.Model {
	return c.model
}

// SystemPrompt returns the system prompt applied by Prompt.
func (c *Client) SystemPrompt() string {
	return c.systemPrompt
}

// getAnthropicClient returns the Anthropic client, initializing it if needed.
func (c *Client) getAnthropicClient() (*anthropic.Client, error) {
	c.mu.RLock()
	if c.anthropicClient != nil {
		defer c.mu.RUnlock()
		return c.anthropicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.anthropicClient != nil {
		return c.anthropicClient, nil
	}

	if c.apiKeys.Anthropic == "" {
		return nil, &ErrMissingAPIKey{Provider: "anthropic"}
	}

	c.anthropicClient = anthropic.New(c.apiKeys.Anthropic)
	return c.anthropicClient, nil
}

// getOpenAIClient returns the OpenAI client, initializing it if needed.
func (c *Client) getOpenAIClient() (*openai.Client, error) {
	c.mu.RLock()
	if c.openaiClient != nil {
		defer c.mu.RUnlock()
		return c.openaiClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.openaiClient != nil {
		return c.openaiClient, nil
	}

	if c.apiKeys.OpenAI == "" {
		return nil, &ErrMissingAPIKey{Provider: "openai"}
	}

	c.openaiClient = openai.New(c.apiKeys.OpenAI)
	return c.openaiClient, nil
}

// getGoogleClient returns the Google client, initializing it if needed.
// Initialization failures are cached so every call reports the same error.
func (c *Client) getGoogleClient(ctx context.Context) (*google.Client, error) {
	c.mu.RLock()
	if c.googleClient != nil {
		defer c.mu.RUnlock()
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		defer c.mu.RUnlock()
		return nil, c.googleInitErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.googleClient != nil {
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		return nil, c.googleInitErr
	}

	if c.apiKeys.Google == "" {
		return nil, &ErrMissingAPIKey{Provider: "google"}
	}

	client, err := google.New(ctx, c.apiKeys.Google)
	if err != nil {
		c.googleInitErr = fmt.Errorf("failed to initialize Google client: %w", err)
		return nil, c.googleInitErr
	}

	c.googleClient = client
	return c.googleClient, nil
}

// backendFor returns the generator serving the given model's provider.
func (c *Client) backendFor(ctx context.Context, m ai.Model) (ai.Generator, ai.Provider, error) {
	provider := m.Provider()

	switch provider {
	case ai.ProviderAnthropic:
		client, err := c.getAnthropicClient()
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	case ai.ProviderOpenAI:
		client, err := c.getOpenAIClient()
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	case ai.ProviderGoogle:
		client, err := c.getGoogleClient(ctx)
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	default:
		return nil, "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Generate sends a conversation to the backend serving the requested model.
// The model can be specified via ai.WithModel, or the client default is used.
// Transient errors are retried according to the client's retry configuration.
func (c *Client) Generate(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	// Prepend default options so per-request options override them
	opts = append(c.defaultOpts, opts...)
	options := ai.ApplyOptions(opts...)

	m := options.Model
	if m == nil {
		m = c.model
	}

	backend, provider, err := c.backendFor(ctx, m)
	if err != nil {
		var missing *ErrMissingAPIKey
		if errors.As(err, &missing) {
			missing.Model = m.String()
		}
		return nil, err
	}

	// Ensure the resolved model reaches the backend
	if options.Model == nil {
		opts = append([]ai.Option{ai.WithModel(m)}, opts...)
	}

	start := time.Now()
	event.Emit(c.events, event.Event{
		Type:      event.RequestStart,
		Operation: "generate",
		Provider:  provider,
	})

	resp, err := retry.Do(ctx, c.retryConfig, func() (*ai.Response, error) {
		return backend.Generate(ctx, messages, opts...)
	})
	if err != nil {
		event.Emit(c.events, event.Event{
			Type:      event.RequestError,
			Operation: "generate",
			Provider:  provider,
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, err
	}

	var usage *ai.Usage
	if resp != nil {
		usage = &resp.Usage
	}
	event.Emit(c.events, event.Event{
		Type:      event.RequestEnd,
		Operation: "generate",
		Provider:  provider,
		Duration:  time.Since(start),
		Usage:     usage,
	})
	return resp, nil
}

// Prompt sends a single user prompt under the client's system prompt and
// returns the response text.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...ai.Option) (string, error) {
	messages := []ai.Message{
		ai.NewSystemMessage(c.systemPrompt),
		ai.NewUserMessage(prompt),
	}
	resp, err := c.Generate(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

var _ ai.Generator = (*Client)(nil)
