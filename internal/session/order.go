package session

import "math/rand/v2"

// shuffledOrder returns a permutation of [0, n) determined by seed.
func shuffledOrder(n int, seed uint64) []int {
	order := authoredOrder(n)
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

func authoredOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
