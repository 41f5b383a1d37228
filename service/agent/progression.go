package agent

import (
	"math/rand"
	"sort"
)

// randomProgression returns 1 to 9 random positions in [1, 99) followed by 100, sorted ascending
func randomProgression(rnd *rand.Rand) []int32 {
	count := 1 + rnd.Intn(9)
	positions := make([]int32, 0, count+1)
	for i := 0; i < count; i++ {
		positions = append(positions, int32(1+rnd.Intn(98)))
	}
	positions = append(positions, 100)
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return positions
}
