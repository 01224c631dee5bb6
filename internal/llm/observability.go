package llm

import (
	"go.uber.org/zap"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task       TaskType
	Provider   Provider
	Model      string
	LatencyMs  int64
	Streamed   bool
	Structured bool
	Success    bool
	ErrorCode  string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// ZapObserver writes LLM call events to a zap logger.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates an Observer that logs events through logger.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger.Named("llm")}
}

func (o *ZapObserver) OnCallComplete(event LLMCallEvent) {
	fields := []zap.Field{
		zap.String("task", string(event.Task)),
		zap.String("provider", string(event.Provider)),
		zap.String("model", event.Model),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Bool("streamed", event.Streamed),
		zap.Bool("structured", event.Structured),
	}
	if !event.Success {
		o.logger.Warn("llm_call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
		return
	}
	o.logger.Info("llm_call", fields...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
