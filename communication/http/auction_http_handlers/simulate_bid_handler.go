package auction_http_handlers

import (
	"errors"
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/agentbid/auction/auctiontypes"
)

type simulateBidRequest struct {
	AuctionID string `json:"auction_id"`
}

type simulateBidResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Bid     *auctiontypes.Bid     `json:"bid,omitempty"`
	Auction *auctiontypes.Auction `json:"auction,omitempty"`
}

type simulateBid struct {
	auctioneer *auctioneer.Auctioneer
	verifier   auctiontypes.Verifier
	logger     lager.Logger
}

func (h *simulateBid) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("simulate-bid")
	logger.Info("handling")

	if _, ok := authenticate(w, r, h.verifier, logger); !ok {
		return
	}

	var req simulateBidRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}
	if req.AuctionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing auction_id"})
		logger.Info("missing-auction-id")
		return
	}

	logger = logger.WithData(lager.Data{"auction-id": req.AuctionID})

	bid, auction, err := h.auctioneer.SimulateBid(r.Context(), req.AuctionID)
	if errors.Is(err, auctiontypes.ErrLearning) {
		logger.Error("learning-failed", err)
		bid, err = nil, nil
	}
	if err != nil {
		writeError(w, err, logger)
		return
	}

	if bid == nil {
		writeJSON(w, http.StatusOK, simulateBidResponse{Success: false, Message: "No bid was placed"})
		logger.Info("no-bid")
		return
	}

	writeJSON(w, http.StatusOK, simulateBidResponse{Success: true, Bid: bid, Auction: &auction})
	logger.Info("success", lager.Data{"amount": bid.Amount})
}
