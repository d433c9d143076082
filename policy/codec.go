package policy

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const parameterVersion = 1

type layerBlob struct {
	FanIn   int       `cbor:"fan_in"`
	FanOut  int       `cbor:"fan_out"`
	Weights []float64 `cbor:"weights"`
	Bias    []float64 `cbor:"bias"`
}

type parameterBlob struct {
	Version    int         `cbor:"version"`
	Layers     []layerBlob `cbor:"layers"`
	Epsilon    float64     `cbor:"epsilon"`
	LearnSteps int         `cbor:"learn_steps"`
}

// Parameters encodes the online network together with the exploration state.
func (p *DQN) Parameters() ([]byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	blob := parameterBlob{
		Version:    parameterVersion,
		Epsilon:    p.epsilon,
		LearnSteps: p.learnSteps,
	}
	for _, l := range p.online.layers {
		fanIn, fanOut := l.weights.Dims()
		blob.Layers = append(blob.Layers, layerBlob{
			FanIn:   fanIn,
			FanOut:  fanOut,
			Weights: append([]float64(nil), l.weights.RawMatrix().Data...),
			Bias:    append([]float64(nil), l.bias...),
		})
	}

	return cbor.Marshal(blob)
}

// LoadParameters replaces the online weights and resyncs the target network.
func (p *DQN) LoadParameters(data []byte) error {
	var blob parameterBlob
	if err := cbor.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("decoding policy parameters: %w", err)
	}
	if blob.Version != parameterVersion {
		return fmt.Errorf("unsupported policy parameter version %d", blob.Version)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if len(blob.Layers) != len(p.online.layers) {
		return fmt.Errorf("policy parameters have %d layers, expected %d", len(blob.Layers), len(p.online.layers))
	}
	for i, lb := range blob.Layers {
		fanIn, fanOut := p.online.layers[i].weights.Dims()
		if lb.FanIn != fanIn || lb.FanOut != fanOut || len(lb.Weights) != fanIn*fanOut || len(lb.Bias) != fanOut {
			return fmt.Errorf("policy layer %d has shape %dx%d, expected %dx%d", i, lb.FanIn, lb.FanOut, fanIn, fanOut)
		}
	}

	for i, lb := range blob.Layers {
		copy(p.online.layers[i].weights.RawMatrix().Data, lb.Weights)
		copy(p.online.layers[i].bias, lb.Bias)
	}
	p.target.copyFrom(p.online)
	p.epsilon = blob.Epsilon
	p.learnSteps = blob.LearnSteps
	return nil
}
