package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/llm"
)

var (
	// ErrMissingContainer indicates the payload has no top-level carte object.
	ErrMissingContainer = errors.New("payload has no carte container")

	// ErrMissingField indicates a required identity field is absent or empty.
	ErrMissingField = errors.New("carte is missing a required field")
)

// requiredFields must be present and non-empty in every synthesized record.
var requiredFields = []string{"workId", "title", "recommendedToolCategory", "automationScore"}

// RecordSynthesizer turns a finished transcript into a WorkRecord.
type RecordSynthesizer interface {
	Synthesize(ctx context.Context, transcript []domain.ChatMessage) (*domain.WorkRecord, error)
}

// carteEnvelope is the response schema: one required carte object.
type carteEnvelope struct {
	Carte domain.WorkRecord `json:"carte" jsonschema:"required"`
}

// CarteSchema is the constrained-generation schema for synthesis.
var CarteSchema = llm.SchemaFor[carteEnvelope]("carte")

// Synthesizer issues one constrained-generation request per call.
type Synthesizer struct {
	client llm.LLMClient
	logger *zap.Logger
}

func NewSynthesizer(client llm.LLMClient, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{client: client, logger: logger.Named("synthesizer")}
}

// Synthesize sends the transcript with the fixed extraction instructions
// and schema, then validates and normalizes the returned record. It does
// not retry. Out-of-range enums are logged and kept; see WorkRecord.Issues.
func (s *Synthesizer) Synthesize(ctx context.Context, transcript []domain.ChatMessage) (*domain.WorkRecord, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskSynthesis,
		UserPrompt: BuildSynthesisPrompt(transcript),
		Schema:     CarteSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}

	envelope, err := llm.ExtractJSON[map[string]any](resp.Text, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := envelope["carte"].(map[string]any)
	if !ok {
		return nil, ErrMissingContainer
	}

	payload := Normalize(raw)
	if err := checkRequired(payload); err != nil {
		return nil, err
	}

	rec, err := DecodeRecord(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrInvalidOutput, err)
	}
	if issues := rec.Issues(); len(issues) > 0 {
		s.logger.Warn("carte has data-quality issues",
			zap.String("work_id", rec.WorkID),
			zap.Strings("issues", issues),
		)
	}
	return rec, nil
}

func checkRequired(payload map[string]any) error {
	for _, field := range requiredFields {
		v, ok := payload[field]
		if !ok || v == nil {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	return nil
}
