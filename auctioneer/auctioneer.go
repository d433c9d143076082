package auctioneer

import (
	"context"
	"sync"

	"code.cloudfoundry.org/lager/v3"
	"code.cloudfoundry.org/workpool"
	"github.com/agentbid/auction/auctionrunner"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/policy"
	"github.com/agentbid/auction/registry"
)

const restoreWorkers = 8

// Auctioneer is the operation surface the transport layer calls into.
type Auctioneer struct {
	logger    lager.Logger
	registry  *registry.Registry
	scheduler *auctionrunner.Scheduler
	round     auctionrunner.RoundRunner
	store     auctiontypes.AuctionStore
	pool      *policy.Pool
}

func New(
	logger lager.Logger,
	registry *registry.Registry,
	scheduler *auctionrunner.Scheduler,
	round auctionrunner.RoundRunner,
	store auctiontypes.AuctionStore,
	pool *policy.Pool,
) *Auctioneer {
	return &Auctioneer{
		logger:    logger.Session("auctioneer"),
		registry:  registry,
		scheduler: scheduler,
		round:     round,
		store:     store,
		pool:      pool,
	}
}

func (a *Auctioneer) CreateAuction(ctx context.Context, spec auctiontypes.AuctionSpec, userID string) (auctiontypes.Auction, error) {
	return a.registry.Create(ctx, spec, userID)
}

func (a *Auctioneer) ListAuctions(ctx context.Context) []auctiontypes.Auction {
	return a.registry.List(ctx)
}

func (a *Auctioneer) GetAuction(ctx context.Context, auctionID string) (auctiontypes.Auction, error) {
	return a.registry.Get(ctx, auctionID)
}

// StartAuction enters userID's agent into the auction, activating it on the
// first start, and makes sure a worker is bidding on it.
func (a *Auctioneer) StartAuction(ctx context.Context, auctionID, userID, agentID string) (auctiontypes.Auction, error) {
	auction, running, err := a.registry.Activate(ctx, auctionID, userID, agentID)
	if err != nil {
		return auctiontypes.Auction{}, err
	}

	if running && a.scheduler.EnsureRunning(auctionID) {
		a.logger.Info("started-worker", lager.Data{"auction-id": auctionID})
	}
	return auction, nil
}

// SimulateBid runs a single round outside the worker loop.
func (a *Auctioneer) SimulateBid(ctx context.Context, auctionID string) (*auctiontypes.Bid, auctiontypes.Auction, error) {
	if _, err := a.registry.Get(ctx, auctionID); err != nil {
		return nil, auctiontypes.Auction{}, err
	}

	bid, err := a.round.Run(ctx, auctionID)
	if err != nil {
		return nil, auctiontypes.Auction{}, err
	}

	auction, err := a.registry.Get(ctx, auctionID)
	if err != nil {
		return nil, auctiontypes.Auction{}, err
	}
	return bid, auction, nil
}

func (a *Auctioneer) GetAgents(userID string) []auctiontypes.Agent {
	return a.registry.Book().EnsureDefaults(userID)
}

// AgentPolicyStats reports the learning progress of an agent's policy if it
// is currently loaded.
func (a *Auctioneer) AgentPolicyStats(agentID string) (policy.LossStats, bool) {
	if a.pool == nil {
		return policy.LossStats{}, false
	}
	p, ok := a.pool.Peek(agentID)
	if !ok {
		return policy.LossStats{}, false
	}
	return p.Stats(), true
}

// Restore reloads every open auction from the store and restarts workers for
// the active ones. Policies for the restored agents are loaded concurrently
// before any worker starts bidding.
func (a *Auctioneer) Restore(ctx context.Context) (int, error) {
	logger := a.logger.Session("restore")

	auctions, err := a.store.LoadOpenAuctions(ctx)
	if err != nil {
		logger.Error("failed-to-load-auctions", err)
		return 0, err
	}

	agents := map[string]struct{}{}
	for _, auction := range auctions {
		a.registry.Restore(auction)
		if auction.Status != auctiontypes.StatusActive {
			continue
		}
		for _, agentID := range auction.SelectedAgents {
			agents[agentID] = struct{}{}
		}
	}

	if err := a.warmPolicies(ctx, logger, agents); err != nil {
		return 0, err
	}

	restarted := 0
	for _, auction := range auctions {
		if auction.Status == auctiontypes.StatusActive && a.scheduler.EnsureRunning(auction.ID) {
			restarted++
		}
	}

	logger.Info("restored", lager.Data{"auctions": len(auctions), "restarted": restarted})
	return len(auctions), nil
}

func (a *Auctioneer) warmPolicies(ctx context.Context, logger lager.Logger, agents map[string]struct{}) error {
	if a.pool == nil || len(agents) == 0 {
		return nil
	}

	pool, err := workpool.NewWorkPool(restoreWorkers)
	if err != nil {
		return err
	}
	defer pool.Stop()

	wg := &sync.WaitGroup{}
	wg.Add(len(agents))
	for agentID := range agents {
		agentID := agentID
		pool.Submit(func() {
			defer wg.Done()
			if _, err := a.pool.PolicyFor(ctx, agentID); err != nil {
				logger.Error("failed-to-load-policy", err, lager.Data{"agent-id": agentID})
			}
		})
	}
	wg.Wait()
	return nil
}
