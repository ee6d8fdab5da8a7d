package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// providerEvents maps the messaging/consultant provider's webhook event
// names onto our triggers. Unlisted events are acknowledged and ignored.
var providerEvents = map[string]usecase.Trigger{
	"lead.replied":     usecase.TriggerLeadReplied,
	"proposal.sent":    usecase.TriggerProposalSent,
	"deal.handoff":     usecase.TriggerHandoffToConsultant,
	"deal.closed_won":  usecase.TriggerDealClosedWon,
	"deal.closed_lost": usecase.TriggerDealClosedLost,
}

// WebhookHandler turns provider callbacks into queued triggers. The
// provider retries deliveries, so the same event can arrive more than
// once; duplicates die as no-ops inside the automation engine.
type WebhookHandler struct {
	Leads    usecase.LeadRepositoryInterface
	Resolver *usecase.ResolveRoleUseCase
	Producer usecase.TriggerProducerInterface
}

func NewWebhookHandler(leads usecase.LeadRepositoryInterface, resolver *usecase.ResolveRoleUseCase, producer usecase.TriggerProducerInterface) *WebhookHandler {
	return &WebhookHandler{
		Leads:    leads,
		Resolver: resolver,
		Producer: producer,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event struct {
		Event  string `json:"event"`
		LeadID string `json:"lead_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	trig, ok := providerEvents[event.Event]
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	lead, err := h.Leads.FindByID(r.Context(), event.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			// Ack so the provider stops retrying a lead we will never have.
			log.Printf("[webhook] %s for unknown lead %s", event.Event, event.LeadID)
			w.WriteHeader(http.StatusOK)
			return
		}
		writeError(w, err)
		return
	}

	// The owner's role is captured now, at fire time.
	role, _ := h.Resolver.Execute(r.Context(), lead.OwnerID)

	if err := h.Producer.PublishTrigger(r.Context(), lead.ID, trig, lead.OwnerID, role); err != nil {
		log.Printf("[webhook] trigger publish failed for lead %s: %v", lead.ID, err)
		// 5xx so the provider redelivers.
		http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
