package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pmehta/splitbook/internal/middleware"
	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/service"
)

type groupHandler struct {
	svc *service.GroupService
}

type groupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
}

func (h *groupHandler) create(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	group, err := h.svc.Create(r.Context(), userID, req.Name, req.Members)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *groupHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groups, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *groupHandler) get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	group, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *groupHandler) update(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	group, err := h.svc.Update(r.Context(), userID, &models.Group{
		ID:      chi.URLParam(r, "groupID"),
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *groupHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "groupID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
