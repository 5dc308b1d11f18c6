package quiz

import (
	"math/rand/v2"
	"sync"
)

// Shuffler permutes n elements through swap, like rand.Shuffle
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler uses the goroutine-safe top-level math/rand/v2 source
func DefaultShuffler() Shuffler {
	return rand.Shuffle
}

// SeededShuffler returns a reproducible shuffler. It is safe for concurrent
// use, but the order in which concurrent callers draw is not.
func SeededShuffler(seed uint64) Shuffler {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int, swap func(i, j int)) {
		mu.Lock()
		defer mu.Unlock()
		r.Shuffle(n, swap)
	}
}
