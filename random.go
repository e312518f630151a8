package rip8

import (
	"crypto/rand"
	mrand "math/rand"
)

// RandomSource produces uniformly distributed bytes for the RND instruction
type RandomSource interface {
	RandomByte() (byte, error)
}

// CryptoRandom reads from the operating system's random source
type CryptoRandom struct{}

func (CryptoRandom) RandomByte() (byte, error) {
	buff := [1]byte{}
	if _, err := rand.Read(buff[:]); err != nil {
		return 0, err
	}

	return buff[0], nil
}

// SeededRandom is a deterministic source. Two instances built with the same
// seed produce the same sequence.
type SeededRandom struct {
	rnd *mrand.Rand
}

func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{
		rnd: mrand.New(mrand.NewSource(seed)),
	}
}

func (r *SeededRandom) RandomByte() (byte, error) {
	return byte(r.rnd.Intn(256)), nil
}
