package qrng

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"
)

// The diffusion step is the single mutation point for Context state:
//
//	state' = BLAKE2b-512(counter || state)
//
// Every bit of the new state is a nonlinear function of the entire
// prior state (avalanche), and the hash is one-way, so neither a prior
// state nor a prior output can be recovered from the current state
// (forward secrecy). The counter prefix keeps the sequence moving even
// if the hash ever maps a state onto itself.

// advance performs one diffusion step and increments the draw counter.
// It refuses to let the counter wrap within a seed epoch.
func (ctx *Context) advance() error {
	if ctx.counter == math.MaxUint64 {
		return ErrCounterExhausted
	}
	var in [8 + StateSize]byte
	binary.LittleEndian.PutUint64(in[:8], ctx.counter)
	copy(in[8:], ctx.state[:])
	sum := blake2b.Sum512(in[:])
	copy(ctx.state[:], sum[:])
	ctx.counter++
	for i := range in {
		in[i] = 0
	}
	return nil
}

// reserve fails early if the current epoch cannot accommodate n more
// advancements. Operations call it before their first mutation so that
// a failing call leaves the state untouched.
func (ctx *Context) reserve(n uint64) error {
	if ctx.counter > math.MaxUint64-n {
		return ErrCounterExhausted
	}
	return nil
}

// absorb folds seed material into the state: each StateSize-sized chunk
// is XORed into the state vector and diffused before the next chunk, so
// the final state depends nonlinearly on every seed byte and on the
// entire prior state. A trailing advancement separates the absorbed
// seed from subsequent output derivation.
func (ctx *Context) absorb(seed []byte) error {
	blocks := uint64(len(seed)+StateSize-1)/StateSize + 1
	if err := ctx.reserve(blocks); err != nil {
		return err
	}
	for len(seed) > 0 {
		n := len(seed)
		if n > StateSize {
			n = StateSize
		}
		for i := 0; i < n; i++ {
			ctx.state[i] ^= seed[i]
		}
		if err := ctx.advance(); err != nil {
			return err
		}
		seed = seed[n:]
	}
	return ctx.advance()
}
