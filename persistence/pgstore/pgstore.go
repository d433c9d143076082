package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

// Store mirrors auctions and bids into Postgres so open auctions survive a
// restart.
type Store struct {
	logger lager.Logger
	pool   *pgxpool.Pool
}

func Connect(ctx context.Context, logger lager.Logger, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return New(logger, pool), nil
}

func New(logger lager.Logger, pool *pgxpool.Pool) *Store {
	return &Store{
		logger: logger.Session("pgstore"),
		pool:   pool,
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) InsertAuction(ctx context.Context, auction auctiontypes.Auction) error {
	participants, selected, err := encodeSelection(auction)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO auctions (
			id, title, description, starting_price, reserve_price, increment,
			current_price, status, start_time, end_time, created_by,
			participants, selected_agents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		auction.ID, auction.Title, auction.Description,
		decimal.NewFromFloat(auction.StartingPrice),
		decimal.NewFromFloat(auction.ReservePrice),
		decimal.NewFromFloat(auction.Increment),
		decimal.NewFromFloat(auction.CurrentPrice),
		string(auction.Status), auction.StartTime, auction.EndTime, auction.CreatedBy,
		participants, selected,
	)
	if err != nil {
		return fmt.Errorf("inserting auction %s: %w", auction.ID, err)
	}
	return nil
}

func (s *Store) UpdateAuctionStatus(ctx context.Context, auction auctiontypes.Auction) error {
	var winningPrice *decimal.Decimal
	if auction.WinningPrice != nil {
		price := decimal.NewFromFloat(*auction.WinningPrice)
		winningPrice = &price
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE auctions
		SET status = $2, start_time = $3, end_time = $4,
		    winner_id = NULLIF($5, ''), winner_name = NULLIF($6, ''), winner_type = NULLIF($7, ''),
		    winning_price = $8
		WHERE id = $1`,
		auction.ID, string(auction.Status), auction.StartTime, auction.EndTime,
		auction.WinnerID, auction.WinnerName, string(auction.WinnerType), winningPrice,
	)
	if err != nil {
		return fmt.Errorf("updating status of auction %s: %w", auction.ID, err)
	}
	return nil
}

func (s *Store) UpdateSelection(ctx context.Context, auction auctiontypes.Auction) error {
	participants, selected, err := encodeSelection(auction)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE auctions SET participants = $2, selected_agents = $3 WHERE id = $1`,
		auction.ID, participants, selected,
	)
	if err != nil {
		return fmt.Errorf("updating selection of auction %s: %w", auction.ID, err)
	}
	return nil
}

// InsertBid records the bid and raises the auction's current price in one
// transaction.
func (s *Store) InsertBid(ctx context.Context, auctionID string, bid auctiontypes.Bid) error {
	amount := decimal.NewFromFloat(bid.Amount)

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO bids (id, auction_id, bidder_id, bidder_name, bidder_type, amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			bid.ID, auctionID, bid.BidderID, bid.BidderName, string(bid.BidderType), amount, bid.Timestamp,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE auctions SET current_price = GREATEST(current_price, $2) WHERE id = $1`,
			auctionID, amount,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting bid %s on auction %s: %w", bid.ID, auctionID, err)
	}
	return nil
}

// LoadOpenAuctions returns every auction that has not completed, oldest
// first, with its bids in order.
func (s *Store) LoadOpenAuctions(ctx context.Context) ([]auctiontypes.Auction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, starting_price, reserve_price, increment,
		       current_price, status, start_time, end_time, created_by,
		       participants, selected_agents
		FROM auctions
		WHERE status <> $1
		ORDER BY created_at, id`,
		string(auctiontypes.StatusCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("loading open auctions: %w", err)
	}

	auctions := []auctiontypes.Auction{}
	index := map[string]int{}
	ids := []string{}

	for rows.Next() {
		var a auctiontypes.Auction
		var starting, reserve, increment, current decimal.Decimal
		var status string
		var participants, selected []byte

		err := rows.Scan(
			&a.ID, &a.Title, &a.Description, &starting, &reserve, &increment,
			&current, &status, &a.StartTime, &a.EndTime, &a.CreatedBy,
			&participants, &selected,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning auction: %w", err)
		}

		a.StartingPrice = starting.InexactFloat64()
		a.ReservePrice = reserve.InexactFloat64()
		a.Increment = increment.InexactFloat64()
		a.CurrentPrice = current.InexactFloat64()
		a.Status = auctiontypes.Status(status)
		if err := json.Unmarshal(participants, &a.Participants); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding participants of %s: %w", a.ID, err)
		}
		if err := json.Unmarshal(selected, &a.SelectedAgents); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding selected agents of %s: %w", a.ID, err)
		}
		a.Bids = []auctiontypes.Bid{}

		index[a.ID] = len(auctions)
		ids = append(ids, a.ID)
		auctions = append(auctions, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading open auctions: %w", err)
	}

	if len(ids) == 0 {
		return auctions, nil
	}

	bidRows, err := s.pool.Query(ctx, `
		SELECT auction_id, id, bidder_id, bidder_name, bidder_type, amount, created_at
		FROM bids
		WHERE auction_id = ANY($1)
		ORDER BY created_at, amount`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("loading bids: %w", err)
	}
	defer bidRows.Close()

	for bidRows.Next() {
		var auctionID, bidderType string
		var amount decimal.Decimal
		var bid auctiontypes.Bid

		err := bidRows.Scan(&auctionID, &bid.ID, &bid.BidderID, &bid.BidderName, &bidderType, &amount, &bid.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scanning bid: %w", err)
		}
		bid.BidderType = auctiontypes.StrategyType(bidderType)
		bid.Amount = amount.InexactFloat64()

		i := index[auctionID]
		auctions[i].Bids = append(auctions[i].Bids, bid)
	}
	if err := bidRows.Err(); err != nil {
		return nil, fmt.Errorf("loading bids: %w", err)
	}

	s.logger.Info("loaded-open-auctions", lager.Data{"count": len(auctions)})
	return auctions, nil
}

func encodeSelection(auction auctiontypes.Auction) ([]byte, []byte, error) {
	participants := auction.Participants
	if participants == nil {
		participants = []string{}
	}
	selected := auction.SelectedAgents
	if selected == nil {
		selected = map[string]string{}
	}

	p, err := json.Marshal(participants)
	if err != nil {
		return nil, nil, err
	}
	s, err := json.Marshal(selected)
	if err != nil {
		return nil, nil, err
	}
	return p, s, nil
}
