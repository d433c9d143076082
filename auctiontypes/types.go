package auctiontypes

import (
	"context"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type StrategyType string

const (
	StrategyReinforcementLearning StrategyType = "reinforcement_learning"
	StrategyHeuristic             StrategyType = "heuristic"
)

// NoWinnerName marks an auction that completed without any bids.
const NoWinnerName = "No Bids"

type AuctionSpec struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	StartingPrice float64 `json:"startingPrice"`
	ReservePrice  float64 `json:"reservePrice"`
	Increment     float64 `json:"increment"`
	Duration      float64 `json:"duration"`
}

type Bid struct {
	ID         string       `json:"id"`
	BidderID   string       `json:"bidderId"`
	BidderName string       `json:"bidderName"`
	BidderType StrategyType `json:"bidderType"`
	Amount     float64      `json:"amount"`
	Timestamp  time.Time    `json:"timestamp"`
}

type Auction struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	StartingPrice  float64           `json:"startingPrice"`
	ReservePrice   float64           `json:"reservePrice"`
	Increment      float64           `json:"increment"`
	StartTime      time.Time         `json:"startTime"`
	EndTime        time.Time         `json:"endTime"`
	CurrentPrice   float64           `json:"currentPrice"`
	Status         Status            `json:"status"`
	Participants   []string          `json:"participants"`
	SelectedAgents map[string]string `json:"selectedAgents"`
	Bids           []Bid             `json:"bids"`
	CreatedBy      string            `json:"createdBy,omitempty"`

	WinnerID     string       `json:"winnerId,omitempty"`
	WinnerName   string       `json:"winnerName,omitempty"`
	WinnerType   StrategyType `json:"winnerType,omitempty"`
	WinningPrice *float64     `json:"winningPrice"`
}

type Agent struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Budget          float64      `json:"budget"`
	RemainingBudget float64      `json:"remainingBudget"`
	TotalSpent      float64      `json:"totalSpent"`
	IsActive        bool         `json:"isActive"`
	StrategyType    StrategyType `json:"strategyType"`
}

type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

type EventName string

const (
	EventAuctionUpdate   EventName = "auction_update"
	EventBidUpdate       EventName = "bid_update"
	EventAuctionComplete EventName = "auction_complete"
)

//go:generate counterfeiter -o fakes/fake_notifier.go . Notifier
type Notifier interface {
	Emit(auctionID string, event EventName, payload interface{})
}

//go:generate counterfeiter -o fakes/fake_auction_store.go . AuctionStore
type AuctionStore interface {
	InsertAuction(ctx context.Context, auction Auction) error
	UpdateAuctionStatus(ctx context.Context, auction Auction) error
	UpdateSelection(ctx context.Context, auction Auction) error
	InsertBid(ctx context.Context, auctionID string, bid Bid) error
	LoadOpenAuctions(ctx context.Context) ([]Auction, error)
}

//go:generate counterfeiter -o fakes/fake_model_store.go . ModelStore
type ModelStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, blob []byte) error
}

//go:generate counterfeiter -o fakes/fake_verifier.go . Verifier
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
