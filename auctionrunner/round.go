package auctionrunner

import (
	"context"
	"fmt"
	"math"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/policy"
	"github.com/agentbid/auction/registry"
	"github.com/google/uuid"
)

type Policy interface {
	Act(state []float64) (action int, amount float64, err error)
	Observe(t auctiontypes.Transition) error
}

type PolicySource interface {
	PolicyFor(ctx context.Context, agentID string) (Policy, error)
}

type poolSource struct {
	pool *policy.Pool
}

// FromPool exposes a policy pool as a PolicySource.
func FromPool(pool *policy.Pool) PolicySource {
	return poolSource{pool: pool}
}

func (s poolSource) PolicyFor(ctx context.Context, agentID string) (Policy, error) {
	return s.pool.PolicyFor(ctx, agentID)
}

// Round runs one evaluation of every participant's candidate bid. The
// interval is the expected spacing between rounds and shapes the time left
// in the learning observation that follows each round.
type Round struct {
	logger   lager.Logger
	clock    clock.Clock
	registry *registry.Registry
	policies PolicySource
	store    auctiontypes.AuctionStore
	notifier auctiontypes.Notifier
	interval time.Duration
}

func NewRound(
	logger lager.Logger,
	clock clock.Clock,
	registry *registry.Registry,
	policies PolicySource,
	store auctiontypes.AuctionStore,
	notifier auctiontypes.Notifier,
	interval time.Duration,
) *Round {
	return &Round{
		logger:   logger.Session("round"),
		clock:    clock,
		registry: registry,
		policies: policies,
		store:    store,
		notifier: notifier,
		interval: interval,
	}
}

type candidate struct {
	agent  auctiontypes.Agent
	policy Policy
	state  []float64
	action int
	amount float64
}

// Run evaluates auctionID once and returns the bid it placed, or nil when
// nobody raised the price.
func (r *Round) Run(ctx context.Context, auctionID string) (*auctiontypes.Bid, error) {
	logger := r.logger.Session("run", lager.Data{"auction-id": auctionID})
	book := r.registry.Book()

	var placed *auctiontypes.Bid
	var snapshot auctiontypes.Auction

	err := r.registry.Mutate(auctionID, func(a *auctiontypes.Auction) error {
		if a.Status != auctiontypes.StatusActive || len(a.Participants) == 0 {
			return nil
		}

		price := a.CurrentPrice
		lastBidder := a.LastBidderID()
		now := r.clock.Now()
		remaining := a.TimeRemaining(now).Seconds()

		candidates := []candidate{}
		leader := -1
		best := price

		for _, userID := range a.Participants {
			agentID := a.SelectedAgents[userID]
			agent, ok := book.Lookup(agentID)
			if !ok {
				logger.Info("skipping-unknown-agent", lager.Data{"user-id": userID, "agent-id": agentID})
				continue
			}
			if agent.ID == lastBidder {
				continue
			}

			available, _ := book.Available(agent.ID, a.ID)
			if available <= price || available < price+a.Increment {
				continue
			}

			p, err := r.policies.PolicyFor(ctx, agent.ID)
			if err != nil {
				logger.Error("failed-to-load-policy", err, lager.Data{"agent-id": agent.ID})
				continue
			}

			state := []float64{price, a.Increment, available, remaining}
			action, amount, err := p.Act(state)
			if err != nil {
				return fmt.Errorf("%w: agent %s: %s", auctiontypes.ErrLearning, agent.ID, err)
			}
			amount = math.Max(price+a.Increment, math.Min(available, amount))

			candidates = append(candidates, candidate{
				agent:  agent,
				policy: p,
				state:  state,
				action: action,
				amount: amount,
			})
			if amount > best {
				best = amount
				leader = len(candidates) - 1
			}
		}

		// Every transition is checked before any policy learns, so a bad one
		// leaves all policies untouched.
		nextRemaining := math.Max(0, remaining-r.interval.Seconds())
		transitions := make([]auctiontypes.Transition, len(candidates))
		for i, c := range candidates {
			reward := 0.0
			if i == leader {
				reward = policy.LeaderReward(c.amount, price, a.Increment)
			}

			t := auctiontypes.Transition{
				State:     c.state,
				Action:    c.action,
				Reward:    reward,
				NextState: []float64{best, a.Increment, c.state[2], nextRemaining},
				Done:      nextRemaining == 0,
			}
			if err := t.Validate(policy.StateSize); err != nil {
				return fmt.Errorf("agent %s: %w", c.agent.ID, err)
			}
			if t.Action < 0 || t.Action >= policy.ActionSize {
				return fmt.Errorf("%w: agent %s: action %d out of range", auctiontypes.ErrLearning, c.agent.ID, t.Action)
			}
			transitions[i] = t
		}

		for i, c := range candidates {
			if err := c.policy.Observe(transitions[i]); err != nil {
				return fmt.Errorf("%w: agent %s: %s", auctiontypes.ErrLearning, c.agent.ID, err)
			}
		}

		if leader < 0 {
			return nil
		}

		winner := candidates[leader]
		bid := auctiontypes.Bid{
			ID:         uuid.NewString(),
			BidderID:   winner.agent.ID,
			BidderName: winner.agent.Name,
			BidderType: winner.agent.StrategyType,
			Amount:     winner.amount,
			Timestamp:  now,
		}
		if err := a.AppendBid(bid); err != nil {
			return err
		}
		book.Hold(a.ID, bid.BidderID, bid.Amount)

		snapshot = a.Copy()
		placed = &snapshot.Bids[len(snapshot.Bids)-1]
		return nil
	})
	if err != nil {
		logger.Error("round-failed", err)
		return nil, err
	}
	if placed == nil {
		return nil, nil
	}

	bid := *placed
	logger.Info("placed-bid", lager.Data{"bidder-id": bid.BidderID, "amount": bid.Amount})

	if err := r.store.InsertBid(ctx, auctionID, bid); err != nil {
		logger.Error("failed-to-persist-bid", err)
	}

	r.notifier.Emit(auctionID, auctiontypes.EventBidUpdate, map[string]interface{}{
		"auction_id": auctionID,
		"bid":        bid,
	})
	r.notifier.Emit(auctionID, auctiontypes.EventAuctionUpdate, map[string]interface{}{
		"auction": snapshot,
	})

	return &bid, nil
}
