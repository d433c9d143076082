package auction_http_handlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/tedsuo/rata"
)

type userAgents struct {
	auctioneer *auctioneer.Auctioneer
	logger     lager.Logger
}

func (h *userAgents) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := rata.Param(r, "user_id")
	logger := h.logger.Session("user-agents", lager.Data{"user-id": userID})

	agents := h.auctioneer.GetAgents(userID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"agents": agents})
	logger.Debug("success")
}

type agentStats struct {
	auctioneer *auctioneer.Auctioneer
	logger     lager.Logger
}

func (h *agentStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	agentID := rata.Param(r, "agent_id")
	logger := h.logger.Session("agent-stats", lager.Data{"agent-id": agentID})

	stats, ok := h.auctioneer.AgentPolicyStats(agentID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no policy loaded for " + agentID})
		logger.Info("not-loaded")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"agent_id": agentID, "stats": stats})
}

type health struct{}

func (h *health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "backend reachable"})
}
