package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Trigger is a named external event that may advance a lead.
type Trigger string

const (
	TriggerOutboundMessageSent Trigger = "outbound_message_sent"
	TriggerProposalSent        Trigger = "proposal_sent"
	TriggerLeadReplied         Trigger = "lead_replied"
	TriggerHandoffToConsultant Trigger = "handoff_to_consultant"
	TriggerDealClosedWon       Trigger = "deal_closed_won"
	TriggerDealClosedLost      Trigger = "deal_closed_lost"
	TriggerInactivityTimeout   Trigger = "inactivity_timeout"
)

// triggerRules maps each fixed trigger to its precondition status and
// target. inactivity_timeout is handled separately: its precondition is
// "any non-terminal status except follow_up".
var triggerRules = map[Trigger]struct{ from, to entity.Status }{
	TriggerOutboundMessageSent: {entity.StatusNew, entity.StatusInitialContact},
	TriggerProposalSent:        {entity.StatusInitialContact, entity.StatusProposalSent},
	TriggerLeadReplied:         {entity.StatusProposalSent, entity.StatusNegotiation},
	TriggerHandoffToConsultant: {entity.StatusNegotiation, entity.StatusHandedOff},
	TriggerDealClosedWon:       {entity.StatusHandedOff, entity.StatusClosedWon},
	TriggerDealClosedLost:      {entity.StatusHandedOff, entity.StatusClosedLost},
}

// ParseTrigger maps a wire name to a Trigger.
func ParseTrigger(name string) (Trigger, bool) {
	t := Trigger(name)
	if t == TriggerInactivityTimeout {
		return t, true
	}
	_, ok := triggerRules[t]
	return t, ok
}

// Evaluate is the automation rule: given the lead's current status,
// return the target status, or ok=false when the precondition does not
// hold and the trigger must be absorbed as a no-op.
func (t Trigger) Evaluate(current entity.Status) (entity.Status, bool) {
	if t == TriggerInactivityTimeout {
		if current.IsTerminal() || current == entity.StatusFollowUp {
			return "", false
		}
		return entity.StatusFollowUp, true
	}
	rule, ok := triggerRules[t]
	if !ok || rule.from != current {
		return "", false
	}
	return rule.to, true
}

// DispatchOutcome is the result of one trigger dispatch.
type DispatchOutcome string

const (
	OutcomeApplied DispatchOutcome = "applied"
	OutcomeNoOp    DispatchOutcome = "noop"
)

// AutomationEngine applies at most one status transition per trigger.
// Chained consequences are never auto-fired; each external event is
// dispatched on its own, which keeps a single signal from cascading.
type AutomationEngine struct {
	Leads LeadRepositoryInterface
	Mail  EmailService // optional, nil disables follow-up alerts

	// FollowUpDelay is how far out the follow-up date is scheduled when
	// a lead gets flagged.
	FollowUpDelay time.Duration
}

func NewAutomationEngine(leads LeadRepositoryInterface, mail EmailService, followUpDelay time.Duration) *AutomationEngine {
	return &AutomationEngine{
		Leads:         leads,
		Mail:          mail,
		FollowUpDelay: followUpDelay,
	}
}

// Dispatch evaluates one trigger against one lead and applies the
// resulting transition, if any. A precondition miss (stale or duplicate
// delivery, lead already advanced) is a designed NoOp, not an error.
// actorRole is the role captured when the trigger fired.
func (e *AutomationEngine) Dispatch(ctx context.Context, trig Trigger, leadID string, actorRole entity.Role) (DispatchOutcome, *entity.Lead, error) {
	lead, err := casApply(ctx, e.Leads, leadID, func(lead *entity.Lead) (entity.Status, error) {
		target, ok := trig.Evaluate(lead.Status)
		if !ok {
			return "", &DomainError{
				Code:    CodeNoOp,
				Message: fmt.Sprintf("trigger %s does not apply to a %s lead", trig, lead.Status),
			}
		}
		// Same gate as manual moves; the capability check is skipped for
		// automation causes inside Authorize.
		if err := Authorize(lead, target, entity.Capabilities(actorRole), Cause(trig)); err != nil {
			return "", err
		}
		return target, nil
	})
	if err != nil {
		if DomainCode(err) == CodeNoOp {
			log.Printf("[automation] %s on lead %s: no-op (%v)", trig, leadID, err)
			return OutcomeNoOp, nil, nil
		}
		return "", nil, err
	}

	log.Printf("[automation] %s moved lead %s to %s (role=%s)", trig, lead.ID, lead.Status, actorRole)

	if lead.Status == entity.StatusFollowUp {
		e.flagFollowUp(ctx, lead)
	}
	return OutcomeApplied, lead, nil
}

// flagFollowUp schedules the follow-up date and alerts the sales inbox.
// Both are best-effort side effects of an already-committed transition.
func (e *AutomationEngine) flagFollowUp(ctx context.Context, lead *entity.Lead) {
	due := time.Now().Add(e.FollowUpDelay)
	if err := e.Leads.ScheduleFollowUp(ctx, lead.ID, due); err != nil {
		log.Printf("[automation] could not schedule follow-up for lead %s: %v", lead.ID, err)
	} else {
		lead.FollowUpAt = &due
	}

	if e.Mail != nil {
		alert := *lead
		go func() {
			if err := e.Mail.SendFollowUpAlert(&alert, due); err != nil {
				log.Printf("[automation] follow-up alert for lead %s failed: %v", alert.ID, err)
			}
		}()
	}
}
