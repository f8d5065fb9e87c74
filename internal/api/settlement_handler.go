package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/middleware"
	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/service"
)

type settlementHandler struct {
	svc *service.SettlementService
}

type settlementRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Note       string          `json:"note,omitempty"`
}

type settlementResponse struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Note       string          `json:"note,omitempty"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  int64           `json:"created_at"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		Currency:   s.Currency,
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

func (h *settlementHandler) create(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	settlement := &models.Settlement{
		GroupID:    chi.URLParam(r, "groupID"),
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Note:       req.Note,
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Create(r.Context(), userID, settlement); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (h *settlementHandler) listByGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	settlements, err := h.svc.ListByGroup(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]settlementResponse, 0, len(settlements))
	for _, s := range settlements {
		resp = append(resp, toSettlementResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *settlementHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "settlementID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
