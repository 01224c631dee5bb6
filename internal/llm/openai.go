package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiClient implements LLMClient with the official OpenAI SDK.
type openaiClient struct {
	client openai.Client
	cfg    LLMConfig
}

func newOpenAIClient(cfg LLMConfig) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required (CARTE_LLM_API_KEY)")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if endpoint := cfg.EndpointURL(); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}

	return &openaiClient{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}, nil
}

func (c *openaiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := c.cfg.ModelName()
	temp, maxTok := c.cfg.taskParams(req)

	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    openaiMessages(req),
		Temperature: openai.Float(temp),
	}
	if maxTok > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTok))
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Schema.Name,
					Schema: req.Schema.Strict,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	var text string
	if req.Stream {
		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		var b strings.Builder
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) > 0 {
				b.WriteString(chunk.Choices[0].Delta.Content)
			}
		}
		if err := stream.Err(); err != nil {
			return nil, classifyError(ctx, fmt.Errorf("openai stream: %w", err))
		}
		text = b.String()
	} else {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, classifyError(ctx, fmt.Errorf("openai chat: %w", err))
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyResponse
		}
		text = resp.Choices[0].Message.Content
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	return &GenerateResponse{Text: text, Model: model, Provider: ProviderOpenAI}, nil
}

func openaiMessages(req GenerateRequest) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemPrompt))
	}
	for _, m := range req.History {
		if m.Role == RoleAssistant {
			msgs = append(msgs, openai.AssistantMessage(m.Content))
			continue
		}
		msgs = append(msgs, openai.UserMessage(m.Content))
	}
	return append(msgs, openai.UserMessage(req.UserPrompt))
}
