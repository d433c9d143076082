package registry

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/google/uuid"
)

type entry struct {
	lock    *sync.Mutex
	auction auctiontypes.Auction
}

// Registry is the in-memory table of auctions. Each auction carries its own
// mutex; the table lock only guards membership.
type Registry struct {
	logger   lager.Logger
	clock    clock.Clock
	store    auctiontypes.AuctionStore
	notifier auctiontypes.Notifier
	book     *AgentBook

	lock    *sync.RWMutex
	entries map[string]*entry
	order   []string
}

func New(
	logger lager.Logger,
	clock clock.Clock,
	store auctiontypes.AuctionStore,
	notifier auctiontypes.Notifier,
	book *AgentBook,
) *Registry {
	return &Registry{
		logger:   logger.Session("registry"),
		clock:    clock,
		store:    store,
		notifier: notifier,
		book:     book,
		lock:     &sync.RWMutex{},
		entries:  map[string]*entry{},
	}
}

func (r *Registry) Book() *AgentBook {
	return r.book
}

func (r *Registry) Create(ctx context.Context, spec auctiontypes.AuctionSpec, userID string) (auctiontypes.Auction, error) {
	if err := spec.Validate(); err != nil {
		return auctiontypes.Auction{}, err
	}

	now := r.clock.Now()
	auction := auctiontypes.Auction{
		ID:             uuid.NewString(),
		Title:          spec.Title,
		Description:    spec.Description,
		StartingPrice:  spec.StartingPrice,
		ReservePrice:   spec.ReservePrice,
		Increment:      spec.Increment,
		StartTime:      now,
		EndTime:        now.Add(time.Duration(spec.Duration * float64(time.Second))),
		CurrentPrice:   spec.StartingPrice,
		Status:         auctiontypes.StatusPending,
		Participants:   []string{},
		SelectedAgents: map[string]string{},
		Bids:           []auctiontypes.Bid{},
		CreatedBy:      userID,
	}

	r.lock.Lock()
	r.entries[auction.ID] = &entry{lock: &sync.Mutex{}, auction: auction}
	r.order = append(r.order, auction.ID)
	r.lock.Unlock()

	logger := r.logger.Session("create", lager.Data{"auction-id": auction.ID})
	logger.Info("created", lager.Data{"title": auction.Title, "duration": spec.Duration})

	if err := r.store.InsertAuction(ctx, auction); err != nil {
		logger.Error("failed-to-persist-auction", err)
	}

	return auction.Copy(), nil
}

// Get returns a snapshot of the auction, completing it first if its time
// has run out.
func (r *Registry) Get(ctx context.Context, id string) (auctiontypes.Auction, error) {
	e, ok := r.lookup(id)
	if !ok {
		return auctiontypes.Auction{}, auctiontypes.AuctionNotFound(id)
	}

	e.lock.Lock()
	finalized := false
	if e.auction.IsExpired(r.clock.Now()) {
		finalized = r.finalizeLocked(e)
	}
	snapshot := e.auction.Copy()
	e.lock.Unlock()

	if finalized {
		r.afterFinalize(ctx, snapshot)
	}
	return snapshot, nil
}

// List returns every auction in creation order, completing expired ones.
func (r *Registry) List(ctx context.Context) []auctiontypes.Auction {
	r.lock.RLock()
	entries := make([]*entry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, r.entries[id])
	}
	r.lock.RUnlock()

	now := r.clock.Now()
	auctions := make([]auctiontypes.Auction, 0, len(entries))
	for _, e := range entries {
		e.lock.Lock()
		finalized := false
		if e.auction.IsExpired(now) {
			finalized = r.finalizeLocked(e)
		}
		snapshot := e.auction.Copy()
		e.lock.Unlock()

		if finalized {
			r.afterFinalize(ctx, snapshot)
		}
		auctions = append(auctions, snapshot)
	}
	return auctions
}

// Activate records userID's agent selection and moves a pending auction to
// active. The returned bool reports whether the auction is active and so
// needs a running worker.
func (r *Registry) Activate(ctx context.Context, id, userID, agentID string) (auctiontypes.Auction, bool, error) {
	e, ok := r.lookup(id)
	if !ok {
		return auctiontypes.Auction{}, false, auctiontypes.AuctionNotFound(id)
	}

	if !ownsAgent(r.book.EnsureDefaults(userID), agentID) {
		return auctiontypes.Auction{}, false, auctiontypes.AgentNotFound(agentID)
	}

	logger := r.logger.Session("activate", lager.Data{"auction-id": id, "user-id": userID, "agent-id": agentID})

	e.lock.Lock()
	started := false
	if e.auction.Status != auctiontypes.StatusCompleted {
		e.auction.AddParticipant(userID, agentID)
	}
	if e.auction.Status == auctiontypes.StatusPending {
		now := r.clock.Now()
		e.auction.Status = auctiontypes.StatusActive
		e.auction.StartTime = now
		if e.auction.EndTime.Before(now) {
			e.auction.EndTime = now
		}
		started = true
	}
	snapshot := e.auction.Copy()
	e.lock.Unlock()

	if started {
		logger.Info("activated", lager.Data{"end-time": snapshot.EndTime})
		if err := r.store.UpdateAuctionStatus(ctx, snapshot); err != nil {
			logger.Error("failed-to-persist-status", err)
		}
	}
	if snapshot.Status != auctiontypes.StatusCompleted {
		if err := r.store.UpdateSelection(ctx, snapshot); err != nil {
			logger.Error("failed-to-persist-selection", err)
		}
	}

	r.notifier.Emit(id, auctiontypes.EventAuctionUpdate, map[string]interface{}{"auction": snapshot})

	return snapshot, snapshot.Status == auctiontypes.StatusActive, nil
}

// Finalize completes an active auction, charging the winner. Completing an
// already completed auction returns it unchanged.
func (r *Registry) Finalize(ctx context.Context, id string) (auctiontypes.Auction, error) {
	e, ok := r.lookup(id)
	if !ok {
		return auctiontypes.Auction{}, auctiontypes.AuctionNotFound(id)
	}

	e.lock.Lock()
	if e.auction.Status == auctiontypes.StatusPending {
		e.lock.Unlock()
		return auctiontypes.Auction{}, auctiontypes.NewValidationError("status", "auction has not started")
	}
	finalized := r.finalizeLocked(e)
	snapshot := e.auction.Copy()
	e.lock.Unlock()

	if finalized {
		r.afterFinalize(ctx, snapshot)
	}
	return snapshot, nil
}

// Mutate runs fn against the live auction while holding its lock.
func (r *Registry) Mutate(id string, fn func(*auctiontypes.Auction) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return auctiontypes.AuctionNotFound(id)
	}

	e.lock.Lock()
	defer e.lock.Unlock()
	return fn(&e.auction)
}

// Restore adds an auction reconstructed from the store, along with the
// agents and hold its bids imply.
func (r *Registry) Restore(auction auctiontypes.Auction) {
	auction = auction.Copy()

	for _, userID := range auction.Participants {
		r.book.EnsureDefaults(userID)
	}
	if auction.Status == auctiontypes.StatusActive {
		if bid, ok := auction.WinningBid(); ok {
			r.book.Hold(auction.ID, bid.BidderID, bid.Amount)
		}
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.entries[auction.ID]; ok {
		existing.lock.Lock()
		existing.auction = auction
		existing.lock.Unlock()
		return
	}
	r.entries[auction.ID] = &entry{lock: &sync.Mutex{}, auction: auction}
	r.order = append(r.order, auction.ID)
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) finalizeLocked(e *entry) bool {
	a := &e.auction
	if a.Status == auctiontypes.StatusCompleted {
		return false
	}

	logger := r.logger.Session("finalize", lager.Data{"auction-id": a.ID})
	a.Status = auctiontypes.StatusCompleted

	bid, ok := a.WinningBid()
	if !ok {
		price := 0.0
		a.WinnerID = ""
		a.WinnerName = auctiontypes.NoWinnerName
		a.WinnerType = ""
		a.WinningPrice = &price
		r.book.Release(a.ID)
		logger.Info("completed-without-bids")
		return true
	}

	price := bid.Amount
	a.WinnerID = bid.BidderID
	a.WinnerName = bid.BidderName
	a.WinnerType = bid.BidderType
	a.WinningPrice = &price

	agent, err := r.book.Settle(a.ID, bid.BidderID, bid.Amount)
	if err != nil {
		logger.Error("failed-to-charge-winner", err, lager.Data{"winner-id": bid.BidderID})
	} else {
		logger.Info("completed", lager.Data{
			"winner-id":        bid.BidderID,
			"winning-price":    price,
			"remaining-budget": agent.RemainingBudget,
		})
	}
	return true
}

func (r *Registry) afterFinalize(ctx context.Context, snapshot auctiontypes.Auction) {
	if err := r.store.UpdateAuctionStatus(ctx, snapshot); err != nil {
		r.logger.Error("failed-to-persist-completion", err, lager.Data{"auction-id": snapshot.ID})
	}
	r.notifier.Emit(snapshot.ID, auctiontypes.EventAuctionComplete, map[string]interface{}{"auction": snapshot})
}

func ownsAgent(agents []auctiontypes.Agent, agentID string) bool {
	for _, agent := range agents {
		if agent.ID == agentID {
			return true
		}
	}
	return false
}
