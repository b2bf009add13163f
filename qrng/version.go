package qrng

// engineVersion identifies the engine build. Bump on any change to the
// diffusion, extraction, or range-mapping constructions, since those
// changes alter the output stream for a given seed.
const engineVersion = "1.2.0"

// Version returns the engine version string. Pure and static.
func Version() string {
	return engineVersion
}
