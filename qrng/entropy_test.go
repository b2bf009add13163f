package qrng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertScoreInRange(t *testing.T, score float64) {
	t.Helper()
	if score < 0.0 || score > 8.0 {
		t.Fatalf("entropy estimate %.4f outside [0, 8]", score)
	}
}

func TestEntropyEstimate_BoundsAcrossOperations(t *testing.T) {
	ctx, err := New(nil)
	assert.NoError(t, err)
	defer ctx.Close()

	assertScoreInRange(t, ctx.EntropyEstimate())

	_, _ = ctx.Bytes(16)
	assertScoreInRange(t, ctx.EntropyEstimate())

	for range 100 {
		_, _ = ctx.Uint64()
		_, _ = ctx.Float64()
		_, _ = ctx.Range32(-5, 5)
	}
	assertScoreInRange(t, ctx.EntropyEstimate())

	assert.NoError(t, ctx.Reseed([]byte("mid-life seed material")))
	assertScoreInRange(t, ctx.EntropyEstimate())

	_, _ = ctx.Bytes(4096)
	assertScoreInRange(t, ctx.EntropyEstimate())
}

func TestEntropyEstimate_PureRead(t *testing.T) {
	ctx, _ := New([]byte("pure read"))
	_, _ = ctx.Bytes(512)

	before := ctx.DrawCount()
	e1 := ctx.EntropyEstimate()
	e2 := ctx.EntropyEstimate()
	assert.Equal(t, e1, e2, "estimate must be stable between extractions")
	assert.Equal(t, before, ctx.DrawCount(), "estimate must not advance state")
}

func TestEntropyEstimate_HealthyOutputScoresHigh(t *testing.T) {
	ctx, _ := New(nil)
	defer ctx.Close()
	_, err := ctx.Bytes(estWindow)
	assert.NoError(t, err)

	score := ctx.EntropyEstimate()
	assertScoreInRange(t, score)
	assert.Greater(t, score, 6.5, "full window of engine output should score near the ceiling")
}

func TestEstimator_ColdStartReportsFullScale(t *testing.T) {
	var e estimator
	assert.Equal(t, 8.0, e.estimate())

	e.observe(make([]byte, estMinSample-1))
	assert.Equal(t, 8.0, e.estimate(), "below the minimum sample no degradation can be claimed")
}

func TestEstimator_StuckOutputScoresZero(t *testing.T) {
	var e estimator
	e.observe(make([]byte, estWindow))
	assert.Less(t, e.estimate(), 0.1, "constant output must collapse the score")
}

func TestEstimator_BiasedBitsScoreLow(t *testing.T) {
	// Alternating 0x00/0xFF keeps the ones fraction at exactly one
	// half but uses two byte values with perfect serial dependence.
	var e estimator
	sample := make([]byte, estWindow)
	for i := range sample {
		if i%2 == 1 {
			sample[i] = 0xFF
		}
	}
	e.observe(sample)
	assert.Less(t, e.estimate(), 1.5, "two-symbol pattern must score far below full scale")
}

func TestEstimator_SaturatedCounterPattern(t *testing.T) {
	// A ramp has flat byte frequencies over a full window yet is fully
	// predictable; the serial-correlation discount has to catch it.
	var e estimator
	sample := make([]byte, estWindow)
	for i := range sample {
		sample[i] = byte(i)
	}
	e.observe(sample)
	assert.Less(t, e.estimate(), 2.0, "ramp pattern must be penalized by serial correlation")
}

func TestEstimator_WindowAgesOut(t *testing.T) {
	// A window of zeros followed by a full window of real output must
	// recover: the estimator tracks recent quality, not history.
	ctx, _ := New(nil)
	defer ctx.Close()

	ctx.est.observe(make([]byte, estWindow))
	assert.Less(t, ctx.EntropyEstimate(), 0.1)

	_, err := ctx.Bytes(estWindow)
	assert.NoError(t, err)
	assert.Greater(t, ctx.EntropyEstimate(), 6.5)
}
