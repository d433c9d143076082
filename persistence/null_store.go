package persistence

import (
	"context"

	"github.com/agentbid/auction/auctiontypes"
)

// NullStore accepts every write and restores nothing. Used when no database
// is configured.
type NullStore struct{}

var _ auctiontypes.AuctionStore = NullStore{}

func (NullStore) InsertAuction(context.Context, auctiontypes.Auction) error       { return nil }
func (NullStore) UpdateAuctionStatus(context.Context, auctiontypes.Auction) error { return nil }
func (NullStore) UpdateSelection(context.Context, auctiontypes.Auction) error     { return nil }
func (NullStore) InsertBid(context.Context, string, auctiontypes.Bid) error       { return nil }

func (NullStore) LoadOpenAuctions(context.Context) ([]auctiontypes.Auction, error) {
	return []auctiontypes.Auction{}, nil
}
