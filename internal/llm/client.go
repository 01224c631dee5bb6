package llm

import (
	"context"
	"fmt"
	"time"
)

// Role identifies the author of a history message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prior turn sent along with a request.
type Message struct {
	Role    Role
	Content string
}

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	History      []Message
	UserPrompt   string
	Stream       bool            // reassembled into a single text before returning
	Schema       *ResponseSchema // nil for free-form text
	Temperature  *float64        // nil uses task default
	MaxTokens    *int            // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	Provider  Provider
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends one request and returns the full response text.
	// Each call is a single attempt; failures are not retried.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// NewClient builds the client for cfg.Provider and wraps it so every call
// is reported to observer.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	var (
		inner LLMClient
		err   error
	)
	switch cfg.Provider {
	case ProviderGemini, "":
		inner, err = newGeminiClient(ctx, cfg)
	case ProviderOpenAI:
		inner, err = newOpenAIClient(cfg)
	case ProviderOpenRouter:
		inner, err = newOpenRouterClient(cfg)
	case ProviderOllama:
		inner = NewOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithObserver(inner, cfg.Provider, cfg.ModelName(), observer), nil
}

type observedClient struct {
	inner    LLMClient
	provider Provider
	model    string
	observer Observer
}

// WithObserver decorates client so that each call emits an LLMCallEvent.
func WithObserver(client LLMClient, provider Provider, model string, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &observedClient{inner: client, provider: provider, model: model, observer: observer}
}

func (c *observedClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	resp, err := c.inner.Generate(ctx, req)
	latency := time.Since(start).Milliseconds()

	c.observer.OnCallComplete(LLMCallEvent{
		Task:       req.Task,
		Provider:   c.provider,
		Model:      c.model,
		LatencyMs:  latency,
		Streamed:   req.Stream,
		Structured: req.Schema != nil,
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	resp.LatencyMs = latency
	if resp.Provider == "" {
		resp.Provider = c.provider
	}
	return resp, nil
}
