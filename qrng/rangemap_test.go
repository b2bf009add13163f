package qrng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chiSquare computes the Pearson chi-square statistic for a slice of
// observed counts against a uniform expected count per bin.
func chiSquare(counts []int, expected float64) float64 {
	var x2 float64
	for _, o := range counts {
		diff := float64(o) - expected
		x2 += (diff * diff) / expected
	}
	return x2
}

// chiSquarePValueEven computes the upper-tail p-value P(χ² ≥ x2) for an
// even number of degrees of freedom df = 2m via the closed-form series
//
//	P(χ² ≥ x2) = e^{-x2/2} * sum_{j=0}^{m-1} (x2/2)^j / j!
func chiSquarePValueEven(x2 float64, df int) float64 {
	m := df / 2
	t := math.Exp(-x2 / 2.0)
	sum := 1.0 // j = 0
	term := 1.0
	for j := 1; j < m; j++ {
		term *= x2 / (2.0 * float64(j))
		sum += term
	}
	return t * sum
}

// chiSquarePValueApprox approximates the upper-tail p-value for odd df
// using the Wilson-Hilferty cube-root transform.
func chiSquarePValueApprox(x2 float64, df int) float64 {
	nu := float64(df)
	z := (math.Pow(x2/nu, 1.0/3.0) - (1.0 - 2.0/(9.0*nu))) / math.Sqrt(2.0/(9.0*nu))
	phi := 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
	return 1.0 - phi
}

func chiSquarePValue(x2 float64, df int) float64 {
	if df <= 0 {
		return 1.0
	}
	if df%2 == 0 {
		return chiSquarePValueEven(x2, df)
	}
	return chiSquarePValueApprox(x2, df)
}

func TestRange32_Bounds(t *testing.T) {
	ctx, _ := New([]byte("range32 bounds"))
	cases := []struct{ min, max int32 }{
		{0, 9},
		{-10, 10},
		{math.MinInt32, math.MaxInt32},
		{math.MinInt32, math.MinInt32 + 1},
		{math.MaxInt32 - 1, math.MaxInt32},
		{-1, 0},
	}
	for _, tc := range cases {
		for range 1000 {
			v, err := ctx.Range32(tc.min, tc.max)
			assert.NoError(t, err)
			if v < tc.min || v > tc.max {
				t.Fatalf("Range32(%d, %d) = %d out of bounds", tc.min, tc.max, v)
			}
		}
	}
}

func TestRange32_MinEqualsMax(t *testing.T) {
	ctx, _ := New([]byte("degenerate range"))
	before := ctx.DrawCount()
	v, err := ctx.Range32(-42, -42)
	assert.NoError(t, err)
	assert.Equal(t, int32(-42), v)
	assert.Equal(t, before+1, ctx.DrawCount(), "degenerate range must consume exactly one draw")
}

func TestRange32_InvalidRangeIsAtomic(t *testing.T) {
	ctx, _ := New([]byte("invalid range"))
	snapshot := ctx.state
	before := ctx.DrawCount()

	_, err := ctx.Range32(1, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = ctx.Range32(math.MaxInt32, math.MinInt32)
	assert.ErrorIs(t, err, ErrInvalidRange)

	assert.Equal(t, snapshot, ctx.state)
	assert.Equal(t, before, ctx.DrawCount())
}

func TestRange64_Bounds(t *testing.T) {
	ctx, _ := New([]byte("range64 bounds"))
	cases := []struct{ min, max uint64 }{
		{0, 9},
		{0, math.MaxUint64},
		{math.MaxUint64 - 1, math.MaxUint64},
		{1 << 32, 1<<32 + 1000},
		{7, 7},
	}
	for _, tc := range cases {
		for range 1000 {
			v, err := ctx.Range64(tc.min, tc.max)
			assert.NoError(t, err)
			if v < tc.min || v > tc.max {
				t.Fatalf("Range64(%d, %d) = %d out of bounds", tc.min, tc.max, v)
			}
		}
	}
}

func TestRange64_InvalidRange(t *testing.T) {
	ctx, _ := New([]byte("range64 invalid"))
	before := ctx.DrawCount()
	_, err := ctx.Range64(2, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, before, ctx.DrawCount())
}

// TestRange32_Uniformity draws 100_000 samples from Range32(0, 9) and
// chi-square tests the bucket frequencies against uniformity. A naive
// modulo mapping would skew the low buckets; rejection sampling must
// not. Note: this is a probabilistic test — occasional failures may
// occur by chance.
func TestRange32_Uniformity(t *testing.T) {
	const samples = 100_000
	const bins = 10
	const alpha = 0.001
	ctx, _ := New(nil)
	defer ctx.Close()

	counts := make([]int, bins)
	for range samples {
		v, err := ctx.Range32(0, bins-1)
		if err != nil {
			t.Fatalf("Range32 failed: %v", err)
		}
		counts[v]++
	}

	expected := float64(samples) / float64(bins)
	x2 := chiSquare(counts, expected)
	p := chiSquarePValue(x2, bins-1)

	if p < alpha {
		t.Fatalf("χ² test result → H0 rejected (not uniform at significance level α=%.2f): χ²=%.3f p=%.3f", alpha, x2, p)
	} else {
		t.Logf("χ² test result → H0 NOT rejected: χ²=%.3f p=%.3f", x2, p)
	}
}

// TestRange64_Uniformity repeats the check through the 64-bit path with
// a bin count that forces a nonzero rejection threshold.
func TestRange64_Uniformity(t *testing.T) {
	const samples = 100_000
	const bins = 7
	const alpha = 0.001
	ctx, _ := New(nil)
	defer ctx.Close()

	counts := make([]int, bins)
	for range samples {
		v, err := ctx.Range64(100, 100+bins-1)
		if err != nil {
			t.Fatalf("Range64 failed: %v", err)
		}
		counts[v-100]++
	}

	expected := float64(samples) / float64(bins)
	x2 := chiSquare(counts, expected)
	p := chiSquarePValue(x2, bins-1)

	if p < alpha {
		t.Fatalf("χ² test result → H0 rejected (not uniform at significance level α=%.2f): χ²=%.3f p=%.3f", alpha, x2, p)
	}
}
