package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type intakeService interface {
	Execute(ctx context.Context, actingUserID string, input usecase.IntakeLeadInput) (*entity.Lead, error)
}

type exportService interface {
	Execute(ctx context.Context, actingUserID string, w io.Writer) error
}

type deleteService interface {
	Execute(ctx context.Context, actingUserID, leadID string) error
	ExecuteBulk(ctx context.Context, actingUserID string, leadIDs []string) (int64, error)
}

type LeadHandler struct {
	Intake  intakeService
	Export  exportService
	Deleter deleteService
	Leads   usecase.LeadRepositoryInterface

	rateLimiter *RateLimiter
}

func NewLeadHandler(intake intakeService, export exportService, deleter deleteService, leads usecase.LeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{
		Intake:      intake,
		Export:      export,
		Deleter:     deleter,
		Leads:       leads,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.IntakeLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	lead, err := h.Intake.Execute(r.Context(), actingUser(r), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadCaptured(string(lead.Channel))
	writeJSON(w, http.StatusCreated, lead)
}

// Board returns the owner's leads for the kanban columns.
func (h *LeadHandler) Board(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = actingUser(r)
	}

	leads, err := h.Leads.ListByOwner(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	columns := make(map[entity.Status][]*entity.Lead, len(entity.AllStatuses))
	for _, status := range entity.AllStatuses {
		columns[status] = []*entity.Lead{}
	}
	for _, lead := range leads {
		columns[lead.Status] = append(columns[lead.Status], lead)
	}

	writeJSON(w, http.StatusOK, columns)
}

func (h *LeadHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	if err := h.Export.Execute(r.Context(), actingUser(r), w); err != nil {
		// Headers may already be out; best effort.
		writeError(w, err)
	}
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Deleter.Execute(r.Context(), actingUser(r), chi.URLParam(r, "leadId"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	deleted, err := h.Deleter.ExecuteBulk(r.Context(), actingUser(r), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
