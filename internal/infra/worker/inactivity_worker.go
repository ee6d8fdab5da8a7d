package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// InactivityWorker periodically sweeps for leads that went quiet and
// fires inactivity_timeout triggers for them. The automation engine owns
// the decision; leads that advanced between sweep and apply fall out as
// no-ops.
type InactivityWorker struct {
	Leads    usecase.LeadRepositoryInterface
	Resolver *usecase.ResolveRoleUseCase
	Producer usecase.TriggerProducerInterface

	inactivityWindow time.Duration
	tickInterval     time.Duration
}

func NewInactivityWorker(leads usecase.LeadRepositoryInterface, resolver *usecase.ResolveRoleUseCase, producer usecase.TriggerProducerInterface, window time.Duration) *InactivityWorker {
	return &InactivityWorker{
		Leads:            leads,
		Resolver:         resolver,
		Producer:         producer,
		inactivityWindow: window,
		tickInterval:     15 * time.Minute,
	}
}

func (w *InactivityWorker) Start(ctx context.Context) {
	log.Printf("[inactivity] worker started (window %s)", w.inactivityWindow)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[inactivity] worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *InactivityWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.inactivityWindow)

	leads, err := w.Leads.ListInactiveSince(ctx, cutoff)
	if err != nil {
		log.Printf("[inactivity] sweep query failed: %v", err)
		return
	}

	for _, lead := range leads {
		// Capture the owner's current role with the trigger.
		role, _ := w.Resolver.Execute(ctx, lead.OwnerID)
		if err := w.Producer.PublishTrigger(ctx, lead.ID, usecase.TriggerInactivityTimeout, lead.OwnerID, role); err != nil {
			log.Printf("[inactivity] trigger publish for lead %s failed: %v", lead.ID, err)
		}
	}

	if len(leads) > 0 {
		log.Printf("[inactivity] flagged %d stale lead(s)", len(leads))
	}
}
