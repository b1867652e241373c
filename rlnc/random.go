package rlnc

import "io"

// RandomSource is the external uniform byte generator code and recode draw
// coding-vector coefficients from. Any io.Reader that fills a buffer with
// i.i.d. uniform bytes satisfies it — crypto/rand.Reader directly, or a
// math/rand.Rand through its Read method. The core never seeds, retains, or
// otherwise owns the source beyond the single call it's passed to.
type RandomSource interface {
	Read(p []byte) (n int, err error)
}

// fillRandom draws len(buf) uniform bytes from rng into buf. Zero bytes are
// a legal outcome and are never resampled.
func fillRandom(rng RandomSource, buf []byte) error {
	_, err := io.ReadFull(rng, buf)
	return err
}
