package routing

import (
	"errors"
	"math"
)

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// GreedyOnion режет точки доставки на рейсы по k точек.
//
// Каждый рейс начинается от точки забора, дальше каждый раз берется
// ближайшая непосещенная точка к текущей позиции. При равенстве
// расстояний выигрывает меньший индекс. Это эвристика, а не решение TSP.
//
// Возвращает индексы точек доставки (с нуля, без точки забора).
func GreedyOnion(m Matrix, k int) ([][]int, error) {
	if k <= 0 {
		return nil, ErrInvalidBatchSize
	}

	n := m.Stops()
	if n == 0 {
		return [][]int{}, nil
	}

	visited := make([]bool, n+1)
	visited[0] = true
	remaining := n

	batches := make([][]int, 0, (n+k-1)/k)
	for remaining > 0 {
		batch := make([]int, 0, min(k, remaining))
		current := 0

		for len(batch) < k && remaining > 0 {
			next := nearestUnvisited(m, visited, current)
			visited[next] = true
			remaining--
			batch = append(batch, next-1)
			current = next
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

func nearestUnvisited(m Matrix, visited []bool, from int) int {
	best, first := -1, -1
	bestDist := math.Inf(1)
	for j := 1; j < len(m); j++ {
		if visited[j] {
			continue
		}
		if first < 0 {
			first = j
		}
		// строгое "<" оставляет меньший индекс при равенстве
		if m[from][j] < bestDist {
			best = j
			bestDist = m[from][j]
		}
	}
	if best < 0 {
		// все оставшиеся расстояния NaN или +Inf
		return first
	}
	return best
}
