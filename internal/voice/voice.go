// Package voice defines the boundary to the external voice capture and
// embedding engines. Both are treated as fallible black boxes; the
// subsystem only ever sees raw samples and fixed-length embedding vectors.
package voice

import (
	"context"
	"time"
)

// SilenceEpsilon is the maximum absolute sample amplitude below which a
// capture is treated as silence and therefore as a capture failure rather
// than a valid-but-quiet sample.
const SilenceEpsilon = 1e-4

// Recorder captures raw audio from the input device. Record blocks for at
// most the given duration and must honor context cancellation without
// leaking the audio device.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration, sampleRate int) ([]float64, error)
}

// Encoder turns raw audio into a fixed-length, unit-normalized embedding
// vector.
type Encoder interface {
	Embed(ctx context.Context, samples []float64) ([]float64, error)
}

// IsSilence reports whether the capture carries no audio energy above the
// detectable floor. An empty capture counts as silence.
func IsSilence(samples []float64) bool {
	for _, s := range samples {
		if s > SilenceEpsilon || s < -SilenceEpsilon {
			return false
		}
	}
	return true
}
