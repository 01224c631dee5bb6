package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openrouter "github.com/sashabaranov/go-openai"
)

// openrouterClient implements LLMClient against an OpenAI-compatible
// endpoint, OpenRouter by default.
type openrouterClient struct {
	client *openrouter.Client
	cfg    LLMConfig
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func newOpenRouterClient(cfg LLMConfig) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required (CARTE_LLM_API_KEY)")
	}

	config := openrouter.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.EndpointURL()

	var rt http.RoundTripper = http.DefaultTransport
	if cfg.OpenRouterReferrer != "" || cfg.OpenRouterTitle != "" {
		h := http.Header{}
		if cfg.OpenRouterReferrer != "" {
			h.Set("HTTP-Referer", cfg.OpenRouterReferrer)
		}
		if cfg.OpenRouterTitle != "" {
			h.Set("X-Title", cfg.OpenRouterTitle)
		}
		rt = headerTransport{rt: rt, headers: h}
	}
	config.HTTPClient = &http.Client{Transport: rt, Timeout: cfg.Timeout()}

	return &openrouterClient{
		client: openrouter.NewClientWithConfig(config),
		cfg:    cfg,
	}, nil
}

func (c *openrouterClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := c.cfg.ModelName()
	temp, maxTok := c.cfg.taskParams(req)

	chatReq := openrouter.ChatCompletionRequest{
		Model:       model,
		Messages:    openrouterMessages(req),
		Temperature: float32(temp),
		MaxTokens:   maxTok,
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openrouter.ChatCompletionResponseFormat{
			Type: openrouter.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openrouter.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: req.Schema.Strict,
				Strict: true,
			},
		}
	}

	var text string
	if req.Stream {
		stream, err := c.client.CreateChatCompletionStream(ctx, chatReq)
		if err != nil {
			return nil, classifyError(ctx, fmt.Errorf("openrouter stream: %w", err))
		}
		defer stream.Close()

		var b strings.Builder
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, classifyError(ctx, fmt.Errorf("openrouter stream: %w", err))
			}
			if len(chunk.Choices) > 0 {
				b.WriteString(chunk.Choices[0].Delta.Content)
			}
		}
		text = b.String()
	} else {
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return nil, classifyError(ctx, fmt.Errorf("openrouter chat: %w", err))
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyResponse
		}
		text = resp.Choices[0].Message.Content
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	return &GenerateResponse{Text: text, Model: model, Provider: ProviderOpenRouter}, nil
}

func openrouterMessages(req GenerateRequest) []openrouter.ChatCompletionMessage {
	msgs := make([]openrouter.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openrouter.ChatCompletionMessage{Role: openrouter.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.History {
		role := openrouter.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openrouter.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openrouter.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return append(msgs, openrouter.ChatCompletionMessage{Role: openrouter.ChatMessageRoleUser, Content: req.UserPrompt})
}
