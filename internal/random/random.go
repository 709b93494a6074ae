package random

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n cryptographically random ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", err
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// Source picks uniformly distributed indexes for gameplay decisions.
type Source interface {
	// IntN returns a number in [0, n). It panics if n <= 0.
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return mathrand.IntN(n)
}

// NewSource returns a Source backed by the automatically seeded global generator.
func NewSource() Source {
	return globalSource{}
}

// NewSeededSource returns a deterministic Source, useful for reproducing a play-through.
func NewSeededSource(seed uint64) Source {
	return mathrand.New(mathrand.NewPCG(seed, seed))
}
