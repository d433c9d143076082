package policy

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type layer struct {
	weights *mat.Dense // fanIn x fanOut
	bias    []float64
}

// network is a fully connected ReLU MLP with a linear output layer.
type network struct {
	layers []*layer
}

type activations struct {
	inputs []*mat.Dense // input to each layer
	output *mat.Dense
}

func newNetwork(sizes []int, rng *rand.Rand) *network {
	n := &network{}
	for i := 0; i+1 < len(sizes); i++ {
		fanIn, fanOut := sizes[i], sizes[i+1]
		bound := 1 / math.Sqrt(float64(fanIn))

		weights := make([]float64, fanIn*fanOut)
		for j := range weights {
			weights[j] = (rng.Float64()*2 - 1) * bound
		}
		bias := make([]float64, fanOut)
		for j := range bias {
			bias[j] = (rng.Float64()*2 - 1) * bound
		}

		n.layers = append(n.layers, &layer{
			weights: mat.NewDense(fanIn, fanOut, weights),
			bias:    bias,
		})
	}
	return n
}

func (n *network) forward(x *mat.Dense) activations {
	acts := activations{}
	current := x
	for i, l := range n.layers {
		acts.inputs = append(acts.inputs, current)

		rows, _ := current.Dims()
		_, cols := l.weights.Dims()
		z := mat.NewDense(rows, cols, nil)
		z.Mul(current, l.weights)
		for r := 0; r < rows; r++ {
			floats.Add(z.RawRowView(r), l.bias)
		}

		if i < len(n.layers)-1 {
			z.Apply(func(_, _ int, v float64) float64 {
				return math.Max(0, v)
			}, z)
		}
		current = z
	}
	acts.output = current
	return acts
}

// backward propagates the output gradient and returns parameter gradients in
// the same order as parameters().
func (n *network) backward(acts activations, gradOutput *mat.Dense) [][]float64 {
	grads := make([][]float64, 2*len(n.layers))
	delta := gradOutput

	for i := len(n.layers) - 1; i >= 0; i-- {
		l := n.layers[i]
		input := acts.inputs[i]

		fanIn, fanOut := l.weights.Dims()
		gradWeights := mat.NewDense(fanIn, fanOut, nil)
		gradWeights.Mul(input.T(), delta)

		gradBias := make([]float64, fanOut)
		rows, _ := delta.Dims()
		for r := 0; r < rows; r++ {
			floats.Add(gradBias, delta.RawRowView(r))
		}

		grads[2*i] = gradWeights.RawMatrix().Data
		grads[2*i+1] = gradBias

		if i == 0 {
			break
		}

		upstream := mat.NewDense(rows, fanIn, nil)
		upstream.Mul(delta, l.weights.T())
		// the input of layer i is the ReLU output of layer i-1
		upstream.Apply(func(r, c int, v float64) float64 {
			if input.At(r, c) <= 0 {
				return 0
			}
			return v
		}, upstream)
		delta = upstream
	}
	return grads
}

func (n *network) parameters() [][]float64 {
	params := make([][]float64, 0, 2*len(n.layers))
	for _, l := range n.layers {
		params = append(params, l.weights.RawMatrix().Data, l.bias)
	}
	return params
}

func (n *network) copyFrom(other *network) {
	for i, l := range other.layers {
		n.layers[i].weights.Copy(l.weights)
		copy(n.layers[i].bias, l.bias)
	}
}

func (n *network) shape() []int {
	if len(n.layers) == 0 {
		return nil
	}
	fanIn, _ := n.layers[0].weights.Dims()
	sizes := []int{fanIn}
	for _, l := range n.layers {
		_, fanOut := l.weights.Dims()
		sizes = append(sizes, fanOut)
	}
	return sizes
}

// scaleFeatures compresses raw prices, budgets and seconds into a range the
// network can work with, preserving sign and order.
func scaleFeatures(state []float64) []float64 {
	out := make([]float64, len(state))
	for i, v := range state {
		out[i] = math.Copysign(math.Log1p(math.Abs(v)), v)
	}
	return out
}

func batchMatrix(states [][]float64) *mat.Dense {
	cols := len(states[0])
	data := make([]float64, 0, len(states)*cols)
	for _, state := range states {
		data = append(data, scaleFeatures(state)...)
	}
	return mat.NewDense(len(states), cols, data)
}
