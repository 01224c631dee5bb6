package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ollamaClient implements LLMClient using the Ollama HTTP chat API.
type ollamaClient struct {
	cfg  LLMConfig
	http *http.Client
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig) LLMClient {
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout(),
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// ollamaRequest is the JSON body sent to POST /api/chat.
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is one JSON object returned by POST /api/chat. When
// streaming, the body is a sequence of these separated by newlines.
type ollamaResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.cfg.taskParams(req)

	body := ollamaRequest{
		Model:    c.cfg.ModelName(),
		Messages: ollamaMessages(req),
		Stream:   req.Stream,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  maxTok,
		},
	}
	if req.Schema != nil {
		format, err := req.Schema.JSON()
		if err != nil {
			return nil, err
		}
		body.Format = format
	}

	text, model, err := c.doRequest(ctx, body)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	return &GenerateResponse{Text: text, Model: model, Provider: ProviderOllama}, nil
}

func ollamaMessages(req GenerateRequest) []ollamaMessage {
	msgs := make([]ollamaMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.History {
		msgs = append(msgs, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}
	return append(msgs, ollamaMessage{Role: "user", Content: req.UserPrompt})
}

func (c *ollamaClient) doRequest(ctx context.Context, body ollamaRequest) (string, string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.EndpointURL(), "/") + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return "", "", fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	if !body.Stream {
		var resp ollamaResponse
		if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
			return "", "", fmt.Errorf("decoding response: %w", err)
		}
		return resp.Message.Content, resp.Model, nil
	}

	var (
		b     strings.Builder
		model string
	)
	scanner := bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", "", fmt.Errorf("decoding stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return "", "", fmt.Errorf("ollama stream error: %s", chunk.Error)
		}
		model = chunk.Model
		b.WriteString(chunk.Message.Content)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("reading stream: %w", err)
	}
	return b.String(), model, nil
}
