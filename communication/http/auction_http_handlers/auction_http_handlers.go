package auction_http_handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/authn"
	"github.com/agentbid/auction/communication/http/routes"
	"github.com/tedsuo/rata"
)

func New(auctioneer *auctioneer.Auctioneer, verifier auctiontypes.Verifier, events http.Handler, logger lager.Logger) rata.Handlers {
	agents := &userAgents{auctioneer: auctioneer, logger: logger}

	handlers := rata.Handlers{
		routes.CreateAuction: &createAuction{auctioneer: auctioneer, verifier: verifier, logger: logger},
		routes.ListAuctions:  &listAuctions{auctioneer: auctioneer, logger: logger},
		routes.StartAuction:  &startAuction{auctioneer: auctioneer, verifier: verifier, logger: logger},
		routes.SimulateBid:   &simulateBid{auctioneer: auctioneer, verifier: verifier, logger: logger},
		routes.AuctionChart:  &auctionChart{auctioneer: auctioneer, logger: logger},

		routes.AuctionAgents: agents,
		routes.UserAgents:    agents,
		routes.AgentStats:    &agentStats{auctioneer: auctioneer, logger: logger},

		routes.Health: &health{},
		routes.Events: events,
	}

	return handlers
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger lager.Logger) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		logger.Error("invalid-json", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, logger lager.Logger) {
	var validationErr auctiontypes.ValidationError

	switch {
	case errors.As(err, &validationErr):
		logger.Info("invalid-request", lager.Data{"field": validationErr.Field, "reason": validationErr.Reason})
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, auctiontypes.ErrUnauthorized):
		logger.Info("unauthorized")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, auctiontypes.ErrNotFound):
		logger.Info("not-found", lager.Data{"error": err.Error()})
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.Error("failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// authenticate resolves the caller from the Authorization header, writing a
// 401 when it cannot.
func authenticate(w http.ResponseWriter, r *http.Request, verifier auctiontypes.Verifier, logger lager.Logger) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Missing Authorization header"})
		logger.Info("missing-authorization")
		return "", false
	}

	userID, err := verifier.Verify(r.Context(), authn.BearerToken(header))
	if err != nil {
		writeError(w, err, logger)
		return "", false
	}
	return userID, true
}
