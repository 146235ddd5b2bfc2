package weather

import "math"

// reservoir carries a conserved quantity (heat or moisture) along the
// corner outflow graph. Air holds what is still in flight; stored is what
// corners have absorbed.
type reservoir struct {
	air      []float64
	stored   []float64
	rate     []float64 // Absorption cap per step
	capacity []float64
	area     []float64
	loss     float64 // Fraction of area lost per step at full saturation
}

func newReservoir(n int, loss float64) *reservoir {
	return &reservoir{
		air:      make([]float64, n),
		stored:   make([]float64, n),
		rate:     make([]float64, n),
		capacity: make([]float64, n),
		area:     make([]float64, n),
		loss:     loss,
	}
}

// advect moves air along the outflow fractions until the amount still in
// flight falls below threshold times the injected total, or maxIter steps
// pass. Each step reads only the previous step's air. It returns the number
// of steps taken and the injected total.
func (r *reservoir) advect(neighbors [][]int, outflows [][]float64, threshold float64, maxIter int) (int, float64) {
	n := len(r.air)
	total := 0.0
	var active []int
	for i := 0; i < n; i++ {
		if r.air[i] > 0 {
			active = append(active, i)
			total += r.air[i]
		}
	}
	if total == 0 {
		return 0, 0
	}

	incoming := make([]float64, n)
	queued := make([]bool, n)
	iter := 0
	for ; iter < maxIter && len(active) > 0; iter++ {
		var next []int
		for _, i := range active {
			air := r.air[i]
			if air <= 0 {
				continue
			}
			change := 0.0
			if r.capacity[i] > 0 {
				change = math.Max(0, math.Min(air, r.rate[i]*(1-r.stored[i]/r.capacity[i])))
				r.stored[i] += change
				lost := math.Min(r.area[i]*(r.stored[i]/r.capacity[i])*r.loss, r.stored[i])
				r.stored[i] -= lost
			}
			r.air[i] = 0

			out := air - change
			for k, f := range outflows[i] {
				if f <= 0 {
					continue
				}
				j := neighbors[i][k]
				incoming[j] += out * f
				if !queued[j] {
					queued[j] = true
					next = append(next, j)
				}
			}
		}

		remaining := 0.0
		for _, j := range next {
			r.air[j] = incoming[j]
			incoming[j] = 0
			queued[j] = false
			remaining += r.air[j]
		}
		active = next
		if remaining < threshold*total {
			iter++
			break
		}
	}
	return iter, total
}
