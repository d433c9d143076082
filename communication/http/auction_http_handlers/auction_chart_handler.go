package auction_http_handlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/agentbid/auction/visualization"
	"github.com/tedsuo/rata"
)

type auctionChart struct {
	auctioneer *auctioneer.Auctioneer
	logger     lager.Logger
}

func (h *auctionChart) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auctionID := rata.Param(r, "auction_id")
	logger := h.logger.Session("auction-chart", lager.Data{"auction-id": auctionID})

	auction, err := h.auctioneer.GetAuction(r.Context(), auctionID)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	visualization.WriteBidChart(w, auction)
}
