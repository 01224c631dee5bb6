package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type zapUseCaseObserver struct {
	logger *zap.Logger
}

// NewZapUseCaseObserver logs each use case as one structured entry.
func NewZapUseCaseObserver(logger *zap.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &zapUseCaseObserver{logger: logger}
}

func (o *zapUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 4+len(event.Fields))
	fields = append(fields,
		zap.String("use_case", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
	)
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if event.Err != nil {
		o.logger.Error("service_use_case", append(fields, zap.Error(event.Err))...)
		return
	}
	o.logger.Info("service_use_case", fields...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe reports a use case when the returned func runs, typically deferred
// with a pointer to the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(err *error) {
	startedAt := time.Now().UTC()
	return func(err *error) {
		obs.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   *err == nil,
			Err:       *err,
			Fields:    fields,
		})
	}
}
