package auction_http_handlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
)

type listAuctions struct {
	auctioneer *auctioneer.Auctioneer
	logger     lager.Logger
}

func (h *listAuctions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("list-auctions")

	auctions := h.auctioneer.ListAuctions(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"auctions": auctions})
	logger.Debug("success", lager.Data{"count": len(auctions)})
}
