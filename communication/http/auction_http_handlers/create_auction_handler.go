package auction_http_handlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/agentbid/auction/auctiontypes"
)

type createAuctionRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"startingPrice"`
	ReservePrice  float64  `json:"reservePrice"`
	Increment     *float64 `json:"increment"`
	Duration      *float64 `json:"duration"`
}

func (req createAuctionRequest) spec() auctiontypes.AuctionSpec {
	spec := auctiontypes.AuctionSpec{
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		ReservePrice:  req.ReservePrice,
		Increment:     1,
		Duration:      60,
	}
	if req.Increment != nil {
		spec.Increment = *req.Increment
	}
	if req.Duration != nil {
		spec.Duration = *req.Duration
	}
	return spec
}

type createAuction struct {
	auctioneer *auctioneer.Auctioneer
	verifier   auctiontypes.Verifier
	logger     lager.Logger
}

func (h *createAuction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("create-auction")
	logger.Info("handling")

	userID, ok := authenticate(w, r, h.verifier, logger)
	if !ok {
		return
	}

	var req createAuctionRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}

	auction, err := h.auctioneer.CreateAuction(r.Context(), req.spec(), userID)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"auction": auction})
	logger.Info("success", lager.Data{"auction-id": auction.ID})
}
