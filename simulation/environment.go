// Package simulation provides an offline ascending auction in which a learning
// agent bids against scripted opponents. It is used to pretrain policies
// before they take part in live auctions.
package simulation

import (
	"math"
	"math/rand"
	"time"

	"github.com/agentbid/auction/policy"
)

type Config struct {
	Opponents        int           `mapstructure:"opponents"`
	Rounds           int           `mapstructure:"rounds"`
	Interval         time.Duration `mapstructure:"interval"`
	MaxStartingPrice float64       `mapstructure:"max_starting_price"`
	Increment        float64       `mapstructure:"increment"`
	Budget           float64       `mapstructure:"budget"`
	BidProbability   float64       `mapstructure:"bid_probability"`
	Seed             int64         `mapstructure:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Opponents:        2,
		Rounds:           15,
		Interval:         4 * time.Second,
		MaxStartingPrice: 500,
		Increment:        10,
		Budget:           10000,
		BidProbability:   0.7,
	}
}

const (
	noLeader    = -1
	agentLeader = 0
)

// Environment is one ascending auction. The agent is bidder 0; opponents
// raise by the minimum increment until their private limit is reached.
// Nobody may outbid themselves.
type Environment struct {
	config Config
	rng    *rand.Rand

	price     float64
	valuation float64
	limits    []float64
	leader    int
	step      int
}

func NewEnvironment(config Config) *Environment {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Rounds <= 0 {
		config.Rounds = 1
	}
	if config.Increment <= 0 {
		config.Increment = 1
	}
	return &Environment{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
		leader: noLeader,
	}
}

var _ policy.Environment = &Environment{}

func (e *Environment) Reset() []float64 {
	e.price = math.Round(e.rng.Float64() * e.config.MaxStartingPrice)
	e.valuation = e.price + e.config.Increment*(5+e.rng.Float64()*20)
	e.limits = make([]float64, e.config.Opponents)
	for i := range e.limits {
		e.limits[i] = e.price + e.config.Increment*(2+e.rng.Float64()*20)
	}
	e.leader = noLeader
	e.step = 0
	return e.state()
}

func (e *Environment) Step(action int) ([]float64, float64, bool) {
	state := e.state()
	price := e.price
	inc := e.config.Increment
	minBid := price + inc

	best := price
	leader := e.leader
	reward := 0.0

	if e.leader != agentLeader && e.config.Budget >= minBid {
		amount := math.Max(minBid, math.Min(e.config.Budget, policy.BidAmount(state, action)))
		if amount > best {
			best = amount
			leader = agentLeader
		}
	}

	for i, limit := range e.limits {
		bidder := i + 1
		if e.leader == bidder || minBid > limit || e.rng.Float64() > e.config.BidProbability {
			continue
		}
		if minBid > best {
			best = minBid
			leader = bidder
		}
	}

	if leader == agentLeader && best > price {
		reward = policy.LeaderReward(best, price, inc)
	}

	e.price = best
	e.leader = leader
	e.step++

	done := e.step >= e.config.Rounds
	if done && e.leader == agentLeader {
		surplus := (e.valuation - e.price) / e.valuation
		reward += math.Max(-1, math.Min(1, surplus))
	}

	return e.state(), reward, done
}

func (e *Environment) Price() float64 {
	return e.price
}

func (e *Environment) AgentLeads() bool {
	return e.leader == agentLeader
}

func (e *Environment) state() []float64 {
	remaining := float64(e.config.Rounds-e.step) * e.config.Interval.Seconds()
	return []float64{e.price, e.config.Increment, e.config.Budget, math.Max(0, remaining)}
}
