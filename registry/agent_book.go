package registry

import (
	"fmt"
	"sync"

	"github.com/agentbid/auction/auctiontypes"
	"github.com/shopspring/decimal"
)

type DefaultAgent struct {
	Key          string
	Name         string
	Budget       float64
	StrategyType auctiontypes.StrategyType
}

// DefaultAgents is the fixed roster every user receives on first reference.
var DefaultAgents = []DefaultAgent{
	{Key: "alpha", Name: "Alpha Bot", Budget: 10000, StrategyType: auctiontypes.StrategyReinforcementLearning},
	{Key: "beta", Name: "Beta Bot", Budget: 8000, StrategyType: auctiontypes.StrategyHeuristic},
	{Key: "gamma", Name: "Gamma Bot", Budget: 15000, StrategyType: auctiontypes.StrategyReinforcementLearning},
}

func AgentID(key, userID string) string {
	return key + "_" + userID
}

// AgentBook owns every user's agents and the budget each agent has
// committed to auctions it currently leads.
type AgentBook struct {
	lock *sync.Mutex

	byUser map[string][]*auctiontypes.Agent
	byID   map[string]*auctiontypes.Agent

	// agent id -> auction id -> leading amount
	holds map[string]map[string]decimal.Decimal
	// auction id -> agent id holding it
	leaders map[string]string
}

func NewAgentBook() *AgentBook {
	return &AgentBook{
		lock:    &sync.Mutex{},
		byUser:  map[string][]*auctiontypes.Agent{},
		byID:    map[string]*auctiontypes.Agent{},
		holds:   map[string]map[string]decimal.Decimal{},
		leaders: map[string]string{},
	}
}

// EnsureDefaults creates the default roster for userID if it does not exist
// yet and returns the user's agents in roster order.
func (b *AgentBook) EnsureDefaults(userID string) []auctiontypes.Agent {
	b.lock.Lock()
	defer b.lock.Unlock()

	agents, ok := b.byUser[userID]
	if !ok {
		for _, d := range DefaultAgents {
			agent := &auctiontypes.Agent{
				ID:              AgentID(d.Key, userID),
				Name:            d.Name,
				Budget:          d.Budget,
				RemainingBudget: d.Budget,
				IsActive:        true,
				StrategyType:    d.StrategyType,
			}
			agents = append(agents, agent)
			b.byID[agent.ID] = agent
		}
		b.byUser[userID] = agents
	}

	out := make([]auctiontypes.Agent, 0, len(agents))
	for _, agent := range agents {
		out = append(out, *agent)
	}
	return out
}

func (b *AgentBook) Lookup(agentID string) (auctiontypes.Agent, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	agent, ok := b.byID[agentID]
	if !ok {
		return auctiontypes.Agent{}, false
	}
	return *agent, true
}

// Available is what agentID may still bid in auctionID: its remaining budget
// less whatever it leads with in other open auctions.
func (b *AgentBook) Available(agentID, auctionID string) (float64, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	agent, ok := b.byID[agentID]
	if !ok {
		return 0, false
	}

	available := decimal.NewFromFloat(agent.RemainingBudget)
	for heldIn, amount := range b.holds[agentID] {
		if heldIn != auctionID {
			available = available.Sub(amount)
		}
	}
	if available.IsNegative() {
		return 0, true
	}
	return available.InexactFloat64(), true
}

// Hold moves auctionID's lead to agentID at amount, releasing the previous
// leader's hold.
func (b *AgentBook) Hold(auctionID, agentID string, amount float64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.releaseLocked(auctionID)

	if b.holds[agentID] == nil {
		b.holds[agentID] = map[string]decimal.Decimal{}
	}
	b.holds[agentID][auctionID] = decimal.NewFromFloat(amount)
	b.leaders[auctionID] = agentID
}

func (b *AgentBook) Release(auctionID string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.releaseLocked(auctionID)
}

func (b *AgentBook) Held(agentID string) float64 {
	b.lock.Lock()
	defer b.lock.Unlock()

	total := decimal.Zero
	for _, amount := range b.holds[agentID] {
		total = total.Add(amount)
	}
	return total.InexactFloat64()
}

// Settle charges amount to agentID for winning auctionID and clears the
// auction's hold.
func (b *AgentBook) Settle(auctionID, agentID string, amount float64) (auctiontypes.Agent, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.releaseLocked(auctionID)

	agent, ok := b.byID[agentID]
	if !ok {
		return auctiontypes.Agent{}, auctiontypes.AgentNotFound(agentID)
	}

	charge := decimal.NewFromFloat(amount)
	remaining := decimal.NewFromFloat(agent.RemainingBudget)
	if charge.GreaterThan(remaining) {
		return *agent, fmt.Errorf("agent %s cannot cover %s with %s remaining", agentID, charge, remaining)
	}

	remaining = remaining.Sub(charge)
	agent.RemainingBudget = remaining.InexactFloat64()
	agent.TotalSpent = decimal.NewFromFloat(agent.Budget).Sub(remaining).InexactFloat64()
	return *agent, nil
}

func (b *AgentBook) releaseLocked(auctionID string) {
	leader, ok := b.leaders[auctionID]
	if !ok {
		return
	}
	delete(b.leaders, auctionID)
	delete(b.holds[leader], auctionID)
	if len(b.holds[leader]) == 0 {
		delete(b.holds, leader)
	}
}
