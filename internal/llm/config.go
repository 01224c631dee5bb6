package llm

import "time"

// Provider names a model backend.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderOllama     Provider = "ollama"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskInterview TaskType = "interview"
	TaskSynthesis TaskType = "synthesis"
)

// TaskConfig holds per-task generation parameters. Zero MaxTokens
// leaves the provider default in place.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
}

// LLMConfig holds all configuration for the LLM subsystem. It is
// populated from the environment by config.Load.
type LLMConfig struct {
	Provider  Provider `env:"CARTE_LLM_PROVIDER" envDefault:"gemini"`
	Model     string   `env:"CARTE_LLM_MODEL"`
	Endpoint  string   `env:"CARTE_LLM_ENDPOINT"`
	APIKey    string   `env:"CARTE_LLM_API_KEY"`
	TimeoutMs int      `env:"CARTE_LLM_TIMEOUT_MS" envDefault:"60000"`
	LogCalls  bool     `env:"CARTE_LLM_LOG_CALLS"`

	OpenRouterReferrer string `env:"CARTE_OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"CARTE_OPENROUTER_TITLE"`

	Tasks map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:  ProviderGemini,
		TimeoutMs: 60000,
		Tasks:     DefaultTasks(),
	}
}

// DefaultTasks returns the generation parameters for each task.
func DefaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskInterview: {Temperature: 0.7},
		TaskSynthesis: {Temperature: 0.2},
	}
}

// ModelName returns the configured model or the provider's default.
func (c LLMConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOpenRouter:
		return "google/gemini-2.5-flash"
	case ProviderOllama:
		return "llama3.2"
	default:
		return "gemini-2.5-flash"
	}
}

// EndpointURL returns the configured endpoint or the provider's default.
// An empty result means the SDK default is used.
func (c LLMConfig) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	switch c.Provider {
	case ProviderOpenRouter:
		return "https://openrouter.ai/api/v1"
	case ProviderOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}

// Timeout is the transport-level deadline for one request.
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// taskParams resolves temperature and token limit for a request,
// preferring explicit request values over task defaults.
func (c LLMConfig) taskParams(req GenerateRequest) (float64, int) {
	tc, ok := c.Tasks[req.Task]
	if !ok {
		tc = DefaultTasks()[req.Task]
	}
	temp := tc.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := tc.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}
