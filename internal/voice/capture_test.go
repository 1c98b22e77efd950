package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamishal/echoos/internal/common"
)

func TestIsSilence(t *testing.T) {
	assert.True(t, IsSilence(nil))
	assert.True(t, IsSilence([]float64{0, 0, 0}))
	assert.True(t, IsSilence([]float64{1e-5, -1e-5}))
	assert.False(t, IsSilence([]float64{0, 0.2, 0}))
	assert.False(t, IsSilence([]float64{-0.2}))
}

func TestCaptureEmbedding_Success(t *testing.T) {
	rec := &FakeRecorder{Samples: []float64{0.1, -0.2, 0.3}}
	enc := &FakeEncoder{Embedding: []float64{0.5, 0.5}}

	embedding, err := CaptureEmbedding(context.Background(), rec, enc, time.Second, 16000)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, embedding)
}

func TestCaptureEmbedding_RecordErrorIsCaptureFailed(t *testing.T) {
	rec := &FakeRecorder{Err: errors.New("device busy")}
	enc := &FakeEncoder{}

	_, err := CaptureEmbedding(context.Background(), rec, enc, time.Second, 16000)
	require.ErrorIs(t, err, common.ErrCaptureFailed)
}

func TestCaptureEmbedding_SilenceIsCaptureFailed(t *testing.T) {
	rec := &FakeRecorder{Samples: []float64{0, 1e-6, 0}}
	enc := &FakeEncoder{Embedding: []float64{0.5}}

	_, err := CaptureEmbedding(context.Background(), rec, enc, time.Second, 16000)
	require.ErrorIs(t, err, common.ErrCaptureFailed)
}

func TestCaptureEmbedding_EncoderErrorIsCaptureFailed(t *testing.T) {
	rec := &FakeRecorder{Samples: []float64{0.1}}
	enc := &FakeEncoder{Err: errors.New("model not loaded")}

	_, err := CaptureEmbedding(context.Background(), rec, enc, time.Second, 16000)
	require.ErrorIs(t, err, common.ErrCaptureFailed)
}

func TestCaptureEmbedding_CancelledContext(t *testing.T) {
	rec := &FakeRecorder{Block: true}
	enc := &FakeEncoder{Embedding: []float64{0.5}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CaptureEmbedding(ctx, rec, enc, time.Second, 16000)
	require.ErrorIs(t, err, context.Canceled)
}
