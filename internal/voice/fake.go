package voice

import (
	"context"
	"time"
)

// FakeRecorder is a Recorder for tests and for running the assistant
// without an audio device. It returns canned samples, an error, or blocks
// until the context is cancelled.
type FakeRecorder struct {
	Samples []float64
	Err     error
	// Block makes Record wait for context cancellation, simulating a
	// capture that the user abandons.
	Block bool
}

var _ Recorder = (*FakeRecorder)(nil)

func (f *FakeRecorder) Record(ctx context.Context, duration time.Duration, sampleRate int) ([]float64, error) {
	if f.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Samples, nil
}

// FakeEncoder is an Encoder for tests returning a canned embedding.
type FakeEncoder struct {
	Embedding []float64
	Err       error
}

var _ Encoder = (*FakeEncoder)(nil)

func (f *FakeEncoder) Embed(ctx context.Context, samples []float64) ([]float64, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Embedding, nil
}
