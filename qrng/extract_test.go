package qrng

import (
	"math"
	"testing"

	set3 "github.com/TomTonic/Set3"
	"github.com/stretchr/testify/assert"
)

func TestBytes_ExactLengths(t *testing.T) {
	ctx, _ := New(nil)
	defer ctx.Close()

	for _, n := range []int{1, 7, 8, 63, 64, 65, 128, 1000, 1024, 4096} {
		buf, err := ctx.Bytes(n)
		assert.NoError(t, err)
		assert.Len(t, buf, n, "Bytes(%d) returned wrong length", n)
	}
}

func TestBytes_InvalidLength(t *testing.T) {
	ctx, _ := New(nil)
	defer ctx.Close()

	before := ctx.DrawCount()
	for _, n := range []int{0, -1, MaxBytes + 1} {
		buf, err := ctx.Bytes(n)
		assert.Nil(t, buf)
		assert.ErrorIs(t, err, ErrInvalidLength, "Bytes(%d)", n)
	}
	assert.Equal(t, before, ctx.DrawCount(), "rejected requests must not advance state")
}

func TestBytes_NeverRepeats(t *testing.T) {
	ctx, _ := New([]byte("repetition check"))
	prev, err := ctx.Bytes(32)
	assert.NoError(t, err)
	for range 10_000 {
		next, err := ctx.Bytes(32)
		assert.NoError(t, err)
		assert.NotEqual(t, prev, next, "successive outputs repeated")
		prev = next
	}
}

func TestRead_FillsCallerBuffer(t *testing.T) {
	ctx, _ := New(nil)
	defer ctx.Close()

	buf := make([]byte, 100)
	n, err := ctx.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 100, n)

	_, err = ctx.Read(nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = ctx.Read(make([]byte, MaxBytes+1))
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestUint64_NoCollisionsInShortStreams(t *testing.T) {
	ctx, _ := New([]byte("uint64 uniqueness"))
	const limit = 200_000
	set := set3.EmptyWithCapacity[uint64](limit * 7 / 5)
	for range limit {
		v, err := ctx.Uint64()
		assert.NoError(t, err)
		set.Add(v)
	}
	assert.Equal(t, uint32(limit), set.Size(), "64-bit draws collided far too early")
}

func TestDrawCount_StrictlyIncreases(t *testing.T) {
	ctx, _ := New([]byte("counter check"))
	last := ctx.DrawCount()
	for range 1000 {
		_, err := ctx.Uint64()
		assert.NoError(t, err)
		assert.Greater(t, ctx.DrawCount(), last)
		last = ctx.DrawCount()
	}
}

func TestFloat64_Range(t *testing.T) {
	ctx, _ := New([]byte("float range"))
	for range 1_000_000 {
		x, err := ctx.Float64()
		if err != nil {
			t.Fatalf("Float64 failed: %v", err)
		}
		if x < 0.0 || x >= 1.0 || math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("Float64 out of range: %f", x)
		}
	}
}

func TestFloat64_Mean(t *testing.T) {
	ctx, _ := New([]byte("float mean"))
	const samples = 1_000_000
	var sum float64
	for range samples {
		x, _ := ctx.Float64()
		sum += x
	}
	mean := sum / float64(samples)
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("mean too far from 0.5: got %.5f", mean)
	}
}

func TestFloat64_FullPrecision(t *testing.T) {
	// With 52 mantissa bits in play, 100k samples must be collision
	// free; duplicates would indicate clustering at low precision.
	ctx, _ := New([]byte("float precision"))
	seen := make(map[float64]bool, 100_000)
	for range 100_000 {
		x, _ := ctx.Float64()
		if seen[x] {
			t.Fatalf("duplicate value detected: %g", x)
		}
		seen[x] = true
	}
}
