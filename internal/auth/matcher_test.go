package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamishal/echoos/internal/repositories/identities"
)

func TestMatch_EmptyRecordsNeverMatches(t *testing.T) {
	_, ok := Match([]float64{1, 0}, nil, 0.75)
	assert.False(t, ok)

	// even a threshold no score could miss
	_, ok = Match([]float64{1, 0}, []identities.VoiceRecord{}, -10)
	assert.False(t, ok)
}

func TestMatch_ThresholdBoundaryIsInclusive(t *testing.T) {
	records := []identities.VoiceRecord{
		{Name: "alice", Embedding: []float64{1, 0}},
	}

	// score is exactly 0.75
	name, ok := Match([]float64{0.75, 0.4}, records, 0.75)
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	// just below the floor
	_, ok = Match([]float64{0.7499, 0.4}, records, 0.75)
	assert.False(t, ok)
}

func TestMatch_PicksHighestScore(t *testing.T) {
	records := []identities.VoiceRecord{
		{Name: "alice", Embedding: []float64{1, 0}},
		{Name: "bob", Embedding: []float64{0, 1}},
	}

	name, ok := Match([]float64{0.2, 0.9}, records, 0.75)
	assert.True(t, ok)
	assert.Equal(t, "bob", name)
}

func TestMatch_FirstEncounteredMaximumWinsTies(t *testing.T) {
	same := []float64{1, 0}
	records := []identities.VoiceRecord{
		{Name: "alice", Embedding: same},
		{Name: "bob", Embedding: same},
	}

	name, ok := Match([]float64{1, 0}, records, 0.75)
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestMatch_NegativeScoresStillTracked(t *testing.T) {
	records := []identities.VoiceRecord{
		{Name: "alice", Embedding: []float64{-1, 0}},
		{Name: "bob", Embedding: []float64{-0.5, 0}},
	}

	// best score is -0.5 (bob); rejection still applies at any sane floor
	_, ok := Match([]float64{1, 0}, records, 0.75)
	assert.False(t, ok)

	name, ok := Match([]float64{1, 0}, records, -0.6)
	assert.True(t, ok)
	assert.Equal(t, "bob", name)
}

func TestDot_UsesShorterLength(t *testing.T) {
	assert.InDelta(t, 0.5, dot([]float64{0.5, 9}, []float64{1}), 1e-12)
}
