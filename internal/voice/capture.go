package voice

import (
	"context"
	"fmt"

	"time"

	"github.com/mamishal/echoos/internal/common"
)

type captureResult struct {
	embedding []float64
	err       error
}

// CaptureEmbedding records a voice sample and embeds it, running both steps
// on a background worker so the caller's goroutine is never stalled past
// context cancellation. The result is delivered over a one-shot channel;
// when the context is cancelled first, the worker finishes on its own
// (capture is bounded by duration) and the buffered channel lets it exit
// without leaking.
//
// A capture error, an empty capture, or near-silence all yield an error
// wrapping common.ErrCaptureFailed.
func CaptureEmbedding(ctx context.Context, rec Recorder, enc Encoder, duration time.Duration, sampleRate int) ([]float64, error) {
	ch := make(chan captureResult, 1)

	go func() {
		samples, err := rec.Record(ctx, duration, sampleRate)
		if err != nil {
			ch <- captureResult{err: fmt.Errorf("%w: %w", common.ErrCaptureFailed, err)}
			return
		}
		if IsSilence(samples) {
			ch <- captureResult{err: fmt.Errorf("%w: no audio energy detected", common.ErrCaptureFailed)}
			return
		}

		embedding, err := enc.Embed(ctx, samples)
		if err != nil {
			ch <- captureResult{err: fmt.Errorf("%w: embedding: %w", common.ErrCaptureFailed, err)}
			return
		}
		ch <- captureResult{embedding: embedding}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.embedding, res.err
	}
}
