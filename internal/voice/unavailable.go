package voice

import (
	"context"
	"errors"
	"time"
)

// ErrEngineUnavailable is returned when no audio engine is wired in.
var ErrEngineUnavailable = errors.New("voice engine unavailable")

// UnavailableRecorder is the recorder used when no audio engine is
// attached. Every capture attempt fails, so voice enrollment and voice
// login are cleanly rejected instead of silently matching nothing.
type UnavailableRecorder struct{}

func (UnavailableRecorder) Record(ctx context.Context, duration time.Duration, sampleRate int) ([]float64, error) {
	return nil, ErrEngineUnavailable
}

// UnavailableEncoder is the matching encoder stand-in.
type UnavailableEncoder struct{}

func (UnavailableEncoder) Embed(ctx context.Context, samples []float64) ([]float64, error) {
	return nil, ErrEngineUnavailable
}
