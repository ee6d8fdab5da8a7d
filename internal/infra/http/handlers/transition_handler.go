package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type transitionService interface {
	Execute(ctx context.Context, input usecase.RequestManualTransitionInput) (*entity.Lead, error)
}

// TransitionHandler serves the board's card moves.
type TransitionHandler struct {
	Transitions transitionService
}

func NewTransitionHandler(transitions transitionService) *TransitionHandler {
	return &TransitionHandler{Transitions: transitions}
}

type transitionRequest struct {
	TargetStatus entity.Status `json:"target_status"`
}

func (h *TransitionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	lead, err := h.Transitions.Execute(r.Context(), usecase.RequestManualTransitionInput{
		LeadID:       chi.URLParam(r, "leadId"),
		TargetStatus: req.TargetStatus,
		ActingUserID: actingUser(r),
	})
	if err != nil {
		if code := usecase.DomainCode(err); code != "" {
			middleware.RecordTransitionDenial(code)
		}
		writeError(w, err)
		return
	}

	middleware.RecordTransition(string(usecase.CauseManual), string(lead.Status))
	writeJSON(w, http.StatusOK, lead)
}
