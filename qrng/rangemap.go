package qrng

// uniform returns an unbiased draw in [0, span). span == 0 stands for
// the full 2^64 draw space and degenerates to a plain draw.
//
// Bias is removed by rejection sampling: the 2^64 raw draw space splits
// into floor(2^64/span) complete buckets of span values plus a trailing
// partial bucket of (2^64 mod span) values; draws below that threshold
// would overweight the low residues and are redrawn. Expected redraws
// are below one for every span.
func (ctx *Context) uniform(span uint64) (uint64, error) {
	v, err := ctx.uint64()
	if err != nil {
		return 0, err
	}
	if span == 0 {
		return v, nil
	}
	// threshold = 2^64 mod span, computed in uint64 arithmetic.
	threshold := -span % span
	for v < threshold {
		if v, err = ctx.uint64(); err != nil {
			return 0, err
		}
	}
	return v % span, nil
}

// Range32 returns an unbiased draw in the inclusive range [min, max].
// min > max fails with ErrInvalidRange before any state change.
// min == max returns min after exactly one draw.
func (ctx *Context) Range32(min, max int32) (int32, error) {
	if err := ctx.usable(); err != nil {
		return 0, err
	}
	if min > max {
		return 0, ErrInvalidRange
	}
	span := uint64(int64(max)-int64(min)) + 1
	v, err := ctx.uniform(span)
	if err != nil {
		return 0, err
	}
	return int32(int64(min) + int64(v)), nil
}

// Range64 returns an unbiased draw in the inclusive range [min, max].
// min > max fails with ErrInvalidRange before any state change.
// min == max returns min after exactly one draw.
func (ctx *Context) Range64(min, max uint64) (uint64, error) {
	if err := ctx.usable(); err != nil {
		return 0, err
	}
	if min > max {
		return 0, ErrInvalidRange
	}
	span := max - min + 1 // 0 means the full 2^64 range
	v, err := ctx.uniform(span)
	if err != nil {
		return 0, err
	}
	return min + v, nil
}
