package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/middleware"
	"github.com/pmehta/splitbook/internal/service"
)

type balanceHandler struct {
	svc *service.BalanceService
}

// balancesResponse maps counterpart user IDs to amounts from the requesting
// user's point of view: positive means the counterpart owes them.
type balancesResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

type overallBalancesResponse struct {
	Balances map[string]decimal.Decimal            `json:"balances"`
	Groups   map[string]map[string]decimal.Decimal `json:"groups"`
}

func (h *balanceHandler) group(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	balances, err := h.svc.GroupBalances(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balancesResponse{Balances: balances})
}

func (h *balanceHandler) overall(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	merged, perGroup, err := h.svc.OverallBalances(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overallBalancesResponse{Balances: merged, Groups: perGroup})
}
