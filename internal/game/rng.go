package game

import (
	"math/rand"
	"time"
)

// RNG is the source of randomness for every outcome generator. math/rand's
// *Rand satisfies it; tests inject a fixed-sequence implementation.
type RNG interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

func NewRNG() RNG {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
