package auctiontypes

import (
	"fmt"
	"math"
	"time"
)

// MaxDurationSeconds is the longest auction whose end time can be expressed
// as a time.Duration.
const MaxDurationSeconds = float64(math.MaxInt64 / int64(time.Second))

func (a Auction) IsExpired(now time.Time) bool {
	return a.Status == StatusActive && !now.Before(a.EndTime)
}

func (a Auction) LastBidderID() string {
	if len(a.Bids) == 0 {
		return ""
	}
	return a.Bids[len(a.Bids)-1].BidderID
}

func (a Auction) TimeRemaining(now time.Time) time.Duration {
	remaining := a.EndTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WinningBid returns the first bid carrying the maximum amount.
func (a Auction) WinningBid() (Bid, bool) {
	if len(a.Bids) == 0 {
		return Bid{}, false
	}

	winner := a.Bids[0]
	for _, bid := range a.Bids[1:] {
		if bid.Amount > winner.Amount {
			winner = bid
		}
	}
	return winner, true
}

// AppendBid records a raise and moves the current price with it.
func (a *Auction) AppendBid(bid Bid) error {
	if a.Status != StatusActive {
		return fmt.Errorf("auction %s is %s", a.ID, a.Status)
	}
	if bid.Amount <= a.CurrentPrice {
		return fmt.Errorf("bid %.2f does not exceed current price %.2f", bid.Amount, a.CurrentPrice)
	}
	if n := len(a.Bids); n > 0 && bid.Timestamp.Before(a.Bids[n-1].Timestamp) {
		bid.Timestamp = a.Bids[n-1].Timestamp
	}

	a.Bids = append(a.Bids, bid)
	a.CurrentPrice = bid.Amount
	return nil
}

func (a *Auction) AddParticipant(userID, agentID string) {
	if a.SelectedAgents == nil {
		a.SelectedAgents = map[string]string{}
	}
	a.SelectedAgents[userID] = agentID

	for _, participant := range a.Participants {
		if participant == userID {
			return
		}
	}
	a.Participants = append(a.Participants, userID)
}

// Copy returns a deep copy safe to hand out beyond the owner's lock.
func (a Auction) Copy() Auction {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	out.Bids = make([]Bid, len(a.Bids))
	copy(out.Bids, a.Bids)
	out.SelectedAgents = make(map[string]string, len(a.SelectedAgents))
	for user, agent := range a.SelectedAgents {
		out.SelectedAgents[user] = agent
	}
	if a.WinningPrice != nil {
		price := *a.WinningPrice
		out.WinningPrice = &price
	}
	return out
}

func (spec AuctionSpec) Validate() error {
	if spec.Title == "" {
		return NewValidationError("title", "is required")
	}
	if spec.StartingPrice < 0 {
		return NewValidationError("startingPrice", "must not be negative")
	}
	if spec.ReservePrice < 0 {
		return NewValidationError("reservePrice", "must not be negative")
	}
	if math.IsNaN(spec.Increment) || math.IsInf(spec.Increment, 0) || spec.Increment <= 0 {
		return NewValidationError("increment", "must be positive")
	}
	if math.IsNaN(spec.Duration) || spec.Duration <= 0 {
		return NewValidationError("duration", "must be positive")
	}
	if spec.Duration > MaxDurationSeconds {
		return NewValidationError("duration", fmt.Sprintf("must not exceed %.0f seconds", MaxDurationSeconds))
	}
	return nil
}

func (t Transition) Validate(stateSize int) error {
	if len(t.State) != stateSize {
		return fmt.Errorf("%w: state has %d features, expected %d", ErrLearning, len(t.State), stateSize)
	}
	if len(t.NextState) != stateSize {
		return fmt.Errorf("%w: next state has %d features, expected %d", ErrLearning, len(t.NextState), stateSize)
	}
	return nil
}

func (t Transition) Copy() Transition {
	out := t
	out.State = append([]float64(nil), t.State...)
	out.NextState = append([]float64(nil), t.NextState...)
	return out
}
