package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrProviderUnavailable indicates the model endpoint could not be reached.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the transport gave up waiting for the model.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("llm returned an empty response")

	// ErrUnsupportedProvider indicates an unknown provider name in config.
	ErrUnsupportedProvider = errors.New("unsupported llm provider")
)

// classifyError maps transport failures onto the package sentinels so
// callers and observers see the same taxonomy for every provider.
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrInvalidOutput) || errors.Is(err, ErrEmptyResponse) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return err
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}
