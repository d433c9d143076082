package policy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type adam struct {
	learningRate float64
	beta1        float64
	beta2        float64
	epsilon      float64

	step int
	m    [][]float64
	v    [][]float64
}

func newAdam(learningRate float64, params [][]float64) *adam {
	a := &adam{
		learningRate: learningRate,
		beta1:        0.9,
		beta2:        0.999,
		epsilon:      1e-8,
	}
	for _, p := range params {
		a.m = append(a.m, make([]float64, len(p)))
		a.v = append(a.v, make([]float64, len(p)))
	}
	return a
}

func (a *adam) apply(params, grads [][]float64) {
	a.step++
	correction1 := 1 - math.Pow(a.beta1, float64(a.step))
	correction2 := 1 - math.Pow(a.beta2, float64(a.step))

	for i, p := range params {
		g, m, v := grads[i], a.m[i], a.v[i]
		for j := range p {
			m[j] = a.beta1*m[j] + (1-a.beta1)*g[j]
			v[j] = a.beta2*v[j] + (1-a.beta2)*g[j]*g[j]
			mHat := m[j] / correction1
			vHat := v[j] / correction2
			p[j] -= a.learningRate * mHat / (math.Sqrt(vHat) + a.epsilon)
		}
	}
}

// clipGradNorm rescales grads in place so their global L2 norm is at most
// maxNorm and returns the norm before clipping.
func clipGradNorm(grads [][]float64, maxNorm float64) float64 {
	total := 0.0
	for _, g := range grads {
		total += floats.Dot(g, g)
	}
	total = math.Sqrt(total)

	if maxNorm > 0 && total > maxNorm {
		scale := maxNorm / (total + 1e-6)
		for _, g := range grads {
			floats.Scale(scale, g)
		}
	}
	return total
}
