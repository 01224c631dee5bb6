package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient on top of the Google GenAI SDK.
type geminiClient struct {
	client *genai.Client
	cfg    LLMConfig
}

func newGeminiClient(ctx context.Context, cfg LLMConfig) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (CARTE_LLM_API_KEY)")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout()},
	}
	if endpoint := cfg.EndpointURL(); endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{client: client, cfg: cfg}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := c.cfg.ModelName()
	contents := geminiContents(req)
	config := c.generateConfig(req)

	var text string
	if req.Stream {
		var b strings.Builder
		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				return nil, classifyError(ctx, err)
			}
			b.WriteString(resp.Text())
		}
		text = b.String()
	} else {
		resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return nil, classifyError(ctx, err)
		}
		text = resp.Text()
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	return &GenerateResponse{Text: text, Model: model, Provider: ProviderGemini}, nil
}

func (c *geminiClient) generateConfig(req GenerateRequest) *genai.GenerateContentConfig {
	temp, maxTok := c.cfg.taskParams(req)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temp)),
	}
	if maxTok > 0 {
		config.MaxOutputTokens = int32(maxTok)
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.Schema.Gemini()
	}
	return config
}

func geminiContents(req GenerateRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return append(contents, genai.NewContentFromText(req.UserPrompt, genai.RoleUser))
}
