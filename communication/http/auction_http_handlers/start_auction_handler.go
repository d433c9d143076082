package auction_http_handlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/agentbid/auction/auctiontypes"
)

type startAuctionRequest struct {
	AuctionID     string `json:"auction_id"`
	SelectedAgent string `json:"selected_agent"`
}

type startAuction struct {
	auctioneer *auctioneer.Auctioneer
	verifier   auctiontypes.Verifier
	logger     lager.Logger
}

func (h *startAuction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("start-auction")
	logger.Info("handling")

	userID, ok := authenticate(w, r, h.verifier, logger)
	if !ok {
		return
	}

	var req startAuctionRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}
	if req.AuctionID == "" || req.SelectedAgent == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing parameters"})
		logger.Info("missing-parameters")
		return
	}

	logger = logger.WithData(lager.Data{
		"auction-id": req.AuctionID,
		"user-id":    userID,
		"agent-id":   req.SelectedAgent,
	})

	auction, err := h.auctioneer.StartAuction(r.Context(), req.AuctionID, userID, req.SelectedAgent)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"auction": auction})
	logger.Info("success")
}
