package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/middleware"
	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/service"
)

type transactionHandler struct {
	svc *service.TransactionService
}

type transactionRequest struct {
	GroupID     string          `json:"group_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	PaidBy      string          `json:"paid_by"`
	// Participants order is preserved: the first participant absorbs the
	// rounding remainder. Omitting the field on update leaves the list
	// unchanged; an explicit empty list clears it.
	Participants []string `json:"participants"`
}

type transactionResponse struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
	PaidBy       string          `json:"paid_by,omitempty"`
	Participants []string        `json:"participants,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    int64           `json:"created_at"`
}

func toTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		GroupID:      t.GroupID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		Currency:     t.Currency,
		Description:  t.Description,
		PaidBy:       t.PaidBy,
		Participants: t.Participants,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

func (req *transactionRequest) toModel() *models.Transaction {
	return &models.Transaction{
		GroupID:      req.GroupID,
		Type:         models.TransactionType(req.Type),
		Amount:       req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
		PaidBy:       req.PaidBy,
		Participants: req.Participants,
	}
}

func (h *transactionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.createTransaction(w, r, req.toModel())
}

// createInGroup takes the owning group from the URL, not the body.
func (h *transactionHandler) createInGroup(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	txn := req.toModel()
	txn.GroupID = chi.URLParam(r, "groupID")
	h.createTransaction(w, r, txn)
}

func (h *transactionHandler) createTransaction(w http.ResponseWriter, r *http.Request, txn *models.Transaction) {
	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Create(r.Context(), userID, txn); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

func (h *transactionHandler) get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	txn, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "transactionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (h *transactionHandler) update(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	txn := req.toModel()
	txn.ID = chi.URLParam(r, "transactionID")

	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Update(r.Context(), userID, txn); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (h *transactionHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "transactionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *transactionHandler) listByGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	txns, err := h.svc.ListByGroup(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		resp = append(resp, toTransactionResponse(txn))
	}
	writeJSON(w, http.StatusOK, resp)
}
