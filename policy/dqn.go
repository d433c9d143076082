package policy

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/replay"
	"gonum.org/v1/gonum/mat"
)

const (
	StateSize  = 4
	ActionSize = 10

	lossWindow = 100
)

type Config struct {
	StateSize         int     `mapstructure:"state_size"`
	ActionSize        int     `mapstructure:"action_size"`
	HiddenSize        int     `mapstructure:"hidden_size"`
	LearningRate      float64 `mapstructure:"learning_rate"`
	Gamma             float64 `mapstructure:"gamma"`
	Epsilon           float64 `mapstructure:"epsilon"`
	EpsilonMin        float64 `mapstructure:"epsilon_min"`
	EpsilonDecay      float64 `mapstructure:"epsilon_decay"`
	BatchSize         int     `mapstructure:"batch_size"`
	BufferCapacity    int     `mapstructure:"buffer_capacity"`
	TargetUpdateEvery int     `mapstructure:"target_update_every"`
	GradClip          float64 `mapstructure:"grad_clip"`
	Seed              int64   `mapstructure:"seed"`
}

func DefaultConfig() Config {
	return Config{
		StateSize:         StateSize,
		ActionSize:        ActionSize,
		HiddenSize:        128,
		LearningRate:      1e-3,
		Gamma:             0.99,
		Epsilon:           1.0,
		EpsilonMin:        0.05,
		EpsilonDecay:      0.995,
		BatchSize:         32,
		BufferCapacity:    replay.DefaultCapacity,
		TargetUpdateEvery: 1000,
		GradClip:          10.0,
	}
}

// DQN is a deep Q-learning bid policy. The online network picks actions and
// is trained; the target network is a periodically synced copy used only to
// compute learning targets.
type DQN struct {
	lock      *sync.Mutex
	config    Config
	online    *network
	target    *network
	optimizer *adam
	memory    *replay.Buffer
	rng       *rand.Rand

	epsilon    float64
	learnSteps int
	losses     []float64
}

func New(config Config) *DQN {
	rng := rand.New(rand.NewSource(config.Seed))
	sizes := []int{config.StateSize, config.HiddenSize, config.HiddenSize, config.ActionSize}

	online := newNetwork(sizes, rng)
	target := newNetwork(sizes, rng)
	target.copyFrom(online)

	return &DQN{
		lock:      &sync.Mutex{},
		config:    config,
		online:    online,
		target:    target,
		optimizer: newAdam(config.LearningRate, online.parameters()),
		memory:    replay.NewBuffer(config.BufferCapacity),
		rng:       rng,
		epsilon:   config.Epsilon,
	}
}

// BidAmount maps an action index onto a concrete bid: the current price
// (state[0]) raised by (action+1) increments (state[1]).
func BidAmount(state []float64, action int) float64 {
	return state[0] + state[1]*float64(action+1)
}

// Act picks an action epsilon-greedily and returns it with its bid amount.
func (p *DQN) Act(state []float64) (int, float64, error) {
	if len(state) != p.config.StateSize {
		return 0, 0, fmt.Errorf("%w: state has %d features, expected %d", auctiontypes.ErrLearning, len(state), p.config.StateSize)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	var action int
	if p.rng.Float64() <= p.epsilon {
		action = p.rng.Intn(p.config.ActionSize)
	} else {
		action = argmax(p.online.forward(batchMatrix([][]float64{state})).output.RawRowView(0))
	}

	return action, BidAmount(state, action), nil
}

func (p *DQN) Remember(t auctiontypes.Transition) error {
	if err := t.Validate(p.config.StateSize); err != nil {
		return err
	}
	if t.Action < 0 || t.Action >= p.config.ActionSize {
		return fmt.Errorf("%w: action %d out of range", auctiontypes.ErrLearning, t.Action)
	}
	p.memory.Push(t)
	return nil
}

// Observe stores the transition and runs one learning step once enough
// history exists.
func (p *DQN) Observe(t auctiontypes.Transition) error {
	if err := p.Remember(t); err != nil {
		return err
	}
	_, _, err := p.Replay()
	return err
}

// Replay runs one minibatch learning step. It reports false when the buffer
// does not yet hold a full batch.
func (p *DQN) Replay() (float64, bool, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.memory.Len() < p.config.BatchSize {
		return 0, false, nil
	}

	batch, err := p.memory.Sample(p.config.BatchSize, p.rng)
	if err != nil {
		return 0, false, err
	}

	states := make([][]float64, len(batch))
	nextStates := make([][]float64, len(batch))
	for i, t := range batch {
		states[i] = t.State
		nextStates[i] = t.NextState
	}

	nextQ := p.target.forward(batchMatrix(nextStates)).output
	acts := p.online.forward(batchMatrix(states))

	n := float64(len(batch))
	loss := 0.0
	gradOutput := mat.NewDense(len(batch), p.config.ActionSize, nil)
	for i, t := range batch {
		target := t.Reward
		if !t.Done {
			target += p.config.Gamma * maxOf(nextQ.RawRowView(i))
		}
		diff := acts.output.At(i, t.Action) - target
		loss += diff * diff / n
		gradOutput.Set(i, t.Action, 2*diff/n)
	}

	grads := p.online.backward(acts, gradOutput)
	clipGradNorm(grads, p.config.GradClip)
	p.optimizer.apply(p.online.parameters(), grads)

	p.learnSteps++
	if p.config.TargetUpdateEvery > 0 && p.learnSteps%p.config.TargetUpdateEvery == 0 {
		p.target.copyFrom(p.online)
	}

	if p.epsilon > p.config.EpsilonMin {
		p.epsilon = maxFloat(p.config.EpsilonMin, p.epsilon*p.config.EpsilonDecay)
	}

	p.losses = append(p.losses, loss)
	if len(p.losses) > lossWindow {
		p.losses = p.losses[len(p.losses)-lossWindow:]
	}

	return loss, true, nil
}

func (p *DQN) QValues(state []float64) []float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]float64(nil), p.online.forward(batchMatrix([][]float64{state})).output.RawRowView(0)...)
}

func (p *DQN) TargetQValues(state []float64) []float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]float64(nil), p.target.forward(batchMatrix([][]float64{state})).output.RawRowView(0)...)
}

func (p *DQN) SyncTarget() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.target.copyFrom(p.online)
}

func (p *DQN) Epsilon() float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.epsilon
}

func (p *DQN) LearnSteps() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.learnSteps
}

func (p *DQN) MemoryLen() int {
	return p.memory.Len()
}

func (p *DQN) Stats() LossStats {
	p.lock.Lock()
	defer p.lock.Unlock()
	return NewLossStats(p.losses, p.epsilon, p.learnSteps)
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func maxOf(values []float64) float64 {
	return values[argmax(values)]
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// LeaderReward favours the cheapest winning raise: 1 for the minimum raise,
// falling by one over the width of the whole action range.
func LeaderReward(amount, price, increment float64) float64 {
	overpay := amount - (price + increment)
	reward := 1 - overpay/(increment*float64(ActionSize))
	return math.Max(-1, math.Min(1, reward))
}
