package qrng

import (
	"io"

	"golang.org/x/crypto/blake2b"
)

// The entanglement operator works on caller-owned auxiliary buffers,
// never on the Context's own state vector. The Context only serves as
// the entropy source, and no reference to a caller buffer is retained
// past return.

// EntangleStates couples two equal-length buffers in place. Each buffer
// is passed through a reversible linear diffusion and then XOR-padded
// with a single fresh draw of Context entropy, so each buffer is
// individually uniform afterward while the pair keeps an XOR-class
// relation: the shared pad cancels in a' XOR b', leaving the diffusion
// of the original a XOR b. Only a party holding both buffers can
// establish that relation.
//
// Unequal lengths fail with ErrBufferMismatch; lengths above MaxBytes
// fail with ErrInvalidLength. On failure both buffers are untouched.
// Two empty buffers are a no-op success.
func (ctx *Context) EntangleStates(a, b []byte) error {
	if err := ctx.usable(); err != nil {
		return err
	}
	if len(a) != len(b) {
		return ErrBufferMismatch
	}
	if len(a) == 0 {
		return nil
	}
	if len(a) > MaxBytes {
		return ErrInvalidLength
	}
	pad := make([]byte, len(a))
	if err := ctx.fill(pad); err != nil {
		return err
	}
	linearDiffuse(a)
	linearDiffuse(b)
	for i := range pad {
		a[i] ^= pad[i]
		b[i] ^= pad[i]
		pad[i] = 0
	}
	return nil
}

// linearDiffuse applies an in-place prefix-XOR cascade. It is linear
// over GF(2) and invertible, which is exactly what EntangleStates
// needs: linearity preserves the pair's XOR relation through the pass,
// invertibility keeps each buffer's information intact until the pad
// lands on top.
func linearDiffuse(p []byte) {
	for i := 1; i < len(p); i++ {
		p[i] ^= p[i-1]
	}
}

// MeasureState irreversibly collapses the buffer in place: its contents
// are replaced by a BLAKE2b XOF of the prior contents keyed with a
// fresh Context draw. The prior value cannot be recovered from the
// result, and because every call draws fresh entropy, measuring the
// same initial buffer twice yields different results. Context state
// advances with the draw, modeling measurement-induced disturbance.
//
// Buffers above MaxBytes fail with ErrInvalidLength; an empty buffer is
// a no-op success. On failure the buffer is untouched.
func (ctx *Context) MeasureState(buf []byte) error {
	if err := ctx.usable(); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	if len(buf) > MaxBytes {
		return ErrInvalidLength
	}
	var key [64]byte
	if err := ctx.fill(key[:]); err != nil {
		return err
	}
	xof, err := blake2b.NewXOF(uint32(len(buf)), key[:])
	for i := range key {
		key[i] = 0
	}
	if err != nil {
		return err
	}
	xof.Write(buf)
	if _, err := io.ReadFull(xof, buf); err != nil {
		return err
	}
	return nil
}
