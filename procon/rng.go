package procon

import (
	"crypto/rand"
	"encoding/binary"
)

// Source abstracts the two places the emulator needs uniform random bytes:
// the boot-time serial number and the per-reply vibrator filler byte. Tests
// inject a deterministic Source instead of touching the real generator.
//
// No third-party RNG package appears anywhere in the retrieved corpus, so
// this wraps crypto/rand directly rather than reaching for an unrelated
// ecosystem dependency just to generate a handful of bytes.
type Source interface {
	Uint32() uint32
}

type cryptoSource struct{}

func (cryptoSource) Uint32() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read on a supported platform does not fail; if it
		// somehow does, fall back to a fixed value rather than panicking
		// mid-protocol-response.
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// DefaultSource is the Source used when NewEmulator is called without an
// explicit override.
var DefaultSource Source = cryptoSource{}

// FixedSource is a deterministic Source for tests: it cycles through values
// in order, wrapping around.
type FixedSource struct {
	values []uint32
	pos    int
}

func NewFixedSource(values ...uint32) *FixedSource {
	if len(values) == 0 {
		values = []uint32{0}
	}
	return &FixedSource{values: values}
}

func (f *FixedSource) Uint32() uint32 {
	v := f.values[f.pos%len(f.values)]
	f.pos++
	return v
}
