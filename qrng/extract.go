package qrng

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"
)

// outputKey domain-separates output derivation from the diffusion step:
// output blocks are a keyed hash of the freshly advanced state, so raw
// state bytes never leave the engine and an observed output reveals
// nothing about the state that produced it.
var outputKey = []byte("qrng/extract/v1")

// extractBlock advances the state once and derives one BlockSize output
// block from it.
func (ctx *Context) extractBlock(dst *[BlockSize]byte) error {
	if err := ctx.advance(); err != nil {
		return err
	}
	h, err := blake2b.New512(outputKey)
	if err != nil {
		return err
	}
	h.Write(ctx.state[:])
	copy(dst[:], h.Sum(nil))
	return nil
}

// fill writes len(p) fresh output bytes into p and reports them to the
// entropy estimator. Counter headroom is reserved up front so a failing
// call leaves the state untouched.
func (ctx *Context) fill(p []byte) error {
	blocks := uint64(len(p)+BlockSize-1) / BlockSize
	if err := ctx.reserve(blocks); err != nil {
		return err
	}
	var block [BlockSize]byte
	out := p
	for len(out) > 0 {
		if err := ctx.extractBlock(&block); err != nil {
			return err
		}
		n := copy(out, block[:])
		out = out[n:]
	}
	for i := range block {
		block[i] = 0
	}
	ctx.est.observe(p)
	return nil
}

// Bytes returns length fresh random bytes. length must be in
// [1, MaxBytes]; anything else fails with ErrInvalidLength.
func (ctx *Context) Bytes(length int) ([]byte, error) {
	if err := ctx.usable(); err != nil {
		return nil, err
	}
	if length < 1 || length > MaxBytes {
		return nil, ErrInvalidLength
	}
	out := make([]byte, length)
	if err := ctx.fill(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Read fills the caller-owned buffer p in place with fresh random
// bytes. Unlike io.Reader, a zero-length p is a usage error
// (ErrInvalidLength), as is len(p) > MaxBytes; on success n == len(p).
// The engine keeps no reference to p past return.
func (ctx *Context) Read(p []byte) (int, error) {
	if err := ctx.usable(); err != nil {
		return 0, err
	}
	if len(p) < 1 || len(p) > MaxBytes {
		return 0, ErrInvalidLength
	}
	if err := ctx.fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Uint64 returns one full-width draw from freshly advanced state.
func (ctx *Context) Uint64() (uint64, error) {
	if err := ctx.usable(); err != nil {
		return 0, err
	}
	return ctx.uint64()
}

// uint64 is the unvalidated draw used by Uint64 and the range mapper.
func (ctx *Context) uint64() (uint64, error) {
	if err := ctx.reserve(1); err != nil {
		return 0, err
	}
	var block [BlockSize]byte
	if err := ctx.extractBlock(&block); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(block[:8])
	ctx.est.observe(block[:8])
	for i := range block {
		block[i] = 0
	}
	return v, nil
}

// Float64 maps one draw to [0, 1) with the full 52-bit mantissa: the
// draw fills the significand of a float64 in [1, 2) and 1.0 is
// subtracted. The result is never exactly 1.0, never -0.0, and uses the
// maximum precision a float64 can represent without breaking
// uniformity.
func (ctx *Context) Float64() (float64, error) {
	if err := ctx.usable(); err != nil {
		return 0, err
	}
	u, err := ctx.uint64()
	if err != nil {
		return 0, err
	}
	u &= 0x000FFFFFFFFFFFFF // 52 mantissa bits

	const exp uint64 = 1023
	bits := (exp << 52) | u
	return math.Float64frombits(bits) - 1.0, nil
}
