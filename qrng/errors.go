package qrng

import "errors"

// Engine error taxonomy. Every operation reports failures synchronously
// through one of these sentinels (possibly wrapped with detail); a
// failed call leaves the Context state unchanged from before the call.
//
// Allocation failure has no sentinel: Go surfaces heap exhaustion as a
// runtime abort, not a recoverable error value.
var (
	// ErrEntropySource is returned by New when no seed is given and the
	// OS entropy source cannot be read.
	ErrEntropySource = errors.New("qrng: OS entropy source unavailable")

	// ErrInvalidLength is returned when a byte request is zero or
	// exceeds MaxBytes.
	ErrInvalidLength = errors.New("qrng: requested length is zero or exceeds maximum")

	// ErrInvalidRange is returned by Range32/Range64 when min > max.
	ErrInvalidRange = errors.New("qrng: range min is greater than max")

	// ErrInvalidSeed is returned when a seed exceeds MaxSeedSize.
	ErrInvalidSeed = errors.New("qrng: seed exceeds maximum ingestible length")

	// ErrBufferMismatch is returned by EntangleStates when the two
	// buffers differ in length.
	ErrBufferMismatch = errors.New("qrng: state buffers must be the same length")

	// ErrNilContext is returned for operations on a nil or released
	// Context.
	ErrNilContext = errors.New("qrng: operation on nil or released context")

	// ErrCounterExhausted is returned when the draw counter for the
	// current seed epoch would wrap. Reseeding starts a fresh epoch.
	ErrCounterExhausted = errors.New("qrng: draw counter exhausted for this seed epoch")
)

// Code maps an engine error to a stable machine-readable code, for API
// layers that must surface each error kind as a distinct structured
// failure. Unknown errors map to "INTERNAL"; nil maps to "".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEntropySource):
		return "ENTROPY_SOURCE"
	case errors.Is(err, ErrInvalidLength):
		return "INVALID_LENGTH"
	case errors.Is(err, ErrInvalidRange):
		return "INVALID_RANGE"
	case errors.Is(err, ErrInvalidSeed):
		return "INVALID_SEED"
	case errors.Is(err, ErrBufferMismatch):
		return "BUFFER_MISMATCH"
	case errors.Is(err, ErrNilContext):
		return "NULL_CONTEXT"
	case errors.Is(err, ErrCounterExhausted):
		return "COUNTER_EXHAUSTED"
	default:
		return "INTERNAL"
	}
}
