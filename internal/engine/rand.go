package engine

import (
	"math/rand"
	"time"
)

// Rand is the randomness source handed to puzzle generators. Generators never
// reach for global randomness themselves; sessions inject a time-seeded
// source and tests inject fixed seeds for reproducible boards.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
	Perm(n int) []int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSessionRand returns a time-seeded source for live sessions.
func NewSessionRand() Rand {
	return NewRand(time.Now().UnixNano())
}
