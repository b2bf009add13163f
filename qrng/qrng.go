// Package qrng implements a statistically-hardened random number engine
// with an evolving internal state, bias-free range mapping, a live
// entropy-quality estimate, external seed mixing, and cross-buffer
// entanglement/measurement primitives. The "quantum" vocabulary is
// borrowed naming for classical keyed mixing; no physical quantum
// process is involved.
//
// A Context is a single-writer resource. Concurrent use from multiple
// goroutines requires external serialization (or one Context per
// goroutine); Contexts are cheap to create.
package qrng

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	// StateSize is the width of the internal state vector in bytes.
	// It is fixed at construction and never resizes.
	StateSize = 64

	// BlockSize is the number of output bytes produced per state
	// advancement.
	BlockSize = 64

	// MaxBytes is the largest byte request a single Bytes/Read call
	// accepts. Callers needing more issue multiple calls.
	MaxBytes = 1 << 20

	// MaxSeedSize is the largest seed the engine ingests in one
	// New/Reseed call.
	MaxSeedSize = 4096
)

// Context holds the engine's evolving state: the fixed-size state
// vector, a strictly increasing draw counter, the seed-epoch counter,
// the entropy estimator window, and lifecycle timestamps.
type Context struct {
	state    [StateSize]byte
	counter  uint64
	epoch    uint64
	released bool

	est estimator

	createdAt  time.Time
	reseededAt time.Time
}

// New creates a Context. With an empty or nil seed the initial state is
// drawn from the OS entropy source (crypto/rand); if that source is
// unavailable the call fails with ErrEntropySource. With a non-empty
// seed the initial state is a deterministic function of the seed,
// suitable for reproducible testing. Seeds longer than MaxSeedSize fail
// with ErrInvalidSeed.
func New(seed []byte) (*Context, error) {
	if len(seed) > MaxSeedSize {
		return nil, ErrInvalidSeed
	}

	ctx := &Context{createdAt: time.Now()}

	if len(seed) == 0 {
		if _, err := rand.Read(ctx.state[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
		}
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		return ctx, nil
	}

	if err := ctx.absorb(seed); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Close zeroes the internal state and marks the Context released, so
// residual state cannot leak through reused memory. Any operation on a
// released Context, including a second Close, fails with ErrNilContext.
func (ctx *Context) Close() error {
	if err := ctx.usable(); err != nil {
		return err
	}
	for i := range ctx.state {
		ctx.state[i] = 0
	}
	ctx.counter = 0
	ctx.released = true
	return nil
}

// usable reports whether the Context can serve an operation.
func (ctx *Context) usable() error {
	if ctx == nil || ctx.released {
		return ErrNilContext
	}
	return nil
}

// DrawCount returns the number of state advancements performed in the
// current seed epoch.
func (ctx *Context) DrawCount() uint64 {
	if ctx == nil {
		return 0
	}
	return ctx.counter
}

// Epoch returns the seed epoch, starting at 0 and incremented by every
// successful non-empty Reseed.
func (ctx *Context) Epoch() uint64 {
	if ctx == nil {
		return 0
	}
	return ctx.epoch
}

// CreatedAt returns the Context creation time.
func (ctx *Context) CreatedAt() time.Time {
	if ctx == nil {
		return time.Time{}
	}
	return ctx.createdAt
}

// LastReseed returns the time of the last successful non-empty Reseed,
// or the zero time if the Context has never been reseeded.
func (ctx *Context) LastReseed() time.Time {
	if ctx == nil {
		return time.Time{}
	}
	return ctx.reseededAt
}

// Reseed folds seed bytes into the current state through the diffusion
// engine. The resulting state is a function of both the prior state and
// the seed material: reseeding supplements entropy, it never resets or
// discards accumulated state. An empty seed is a no-op success. Seeds
// longer than MaxSeedSize fail with ErrInvalidSeed and leave the state
// unchanged. A successful non-empty reseed starts a new seed epoch and
// restarts the draw counter; the (epoch, counter) pair stays strictly
// monotonic for the life of the Context.
func (ctx *Context) Reseed(seed []byte) error {
	if err := ctx.usable(); err != nil {
		return err
	}
	if len(seed) == 0 {
		return nil
	}
	if len(seed) > MaxSeedSize {
		return ErrInvalidSeed
	}
	if err := ctx.absorb(seed); err != nil {
		return err
	}
	ctx.epoch++
	ctx.counter = 0
	ctx.reseededAt = time.Now()
	return nil
}
