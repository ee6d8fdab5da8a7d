package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type summaryService interface {
	Execute(ctx context.Context, ownerID string) (*usecase.DashboardSummary, error)
}

type DashboardHandler struct {
	Summary summaryService
}

func NewDashboardHandler(summary summaryService) *DashboardHandler {
	return &DashboardHandler{Summary: summary}
}

func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Summary.Execute(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
