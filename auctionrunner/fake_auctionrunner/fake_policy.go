package fake_auctionrunner

import (
	"context"
	"sync"

	"github.com/agentbid/auction/auctionrunner"
	"github.com/agentbid/auction/auctiontypes"
)

// FakePolicy bids a fixed amount and records everything it observes.
type FakePolicy struct {
	lock        *sync.Mutex
	action      int
	amount      float64
	actErr      error
	observeErr  error
	states      [][]float64
	transitions []auctiontypes.Transition
}

func NewFakePolicy(action int, amount float64) *FakePolicy {
	return &FakePolicy{
		lock:   &sync.Mutex{},
		action: action,
		amount: amount,
	}
}

func (p *FakePolicy) Act(state []float64) (int, float64, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.states = append(p.states, append([]float64(nil), state...))
	return p.action, p.amount, p.actErr
}

func (p *FakePolicy) Observe(t auctiontypes.Transition) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.transitions = append(p.transitions, t.Copy())
	return p.observeErr
}

func (p *FakePolicy) SetBid(action int, amount float64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.action = action
	p.amount = amount
}

func (p *FakePolicy) SetActError(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.actErr = err
}

func (p *FakePolicy) SetObserveError(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.observeErr = err
}

func (p *FakePolicy) States() [][]float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([][]float64(nil), p.states...)
}

func (p *FakePolicy) Transitions() []auctiontypes.Transition {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]auctiontypes.Transition(nil), p.transitions...)
}

// FakePolicySource hands out registered policies by agent id.
type FakePolicySource struct {
	lock     *sync.Mutex
	policies map[string]*FakePolicy
}

func NewFakePolicySource() *FakePolicySource {
	return &FakePolicySource{
		lock:     &sync.Mutex{},
		policies: map[string]*FakePolicy{},
	}
}

func (s *FakePolicySource) Register(agentID string, policy *FakePolicy) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.policies[agentID] = policy
}

func (s *FakePolicySource) PolicyFor(ctx context.Context, agentID string) (auctionrunner.Policy, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	policy, ok := s.policies[agentID]
	if !ok {
		policy = NewFakePolicy(0, 0)
		s.policies[agentID] = policy
	}
	return policy, nil
}
