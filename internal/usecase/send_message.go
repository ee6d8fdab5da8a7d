package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// SendLeadMessageUseCase sends an outbound message to a lead through the
// messaging provider and publishes the outbound_message_sent trigger.
// The automation engine, not this use case, decides whether that trigger
// advances the lead.
type SendLeadMessageUseCase struct {
	Leads     LeadRepositoryInterface
	Resolver  *ResolveRoleUseCase
	Messenger MessageService
	Producer  TriggerProducerInterface
}

func NewSendLeadMessageUseCase(leads LeadRepositoryInterface, resolver *ResolveRoleUseCase, messenger MessageService, producer TriggerProducerInterface) *SendLeadMessageUseCase {
	return &SendLeadMessageUseCase{
		Leads:     leads,
		Resolver:  resolver,
		Messenger: messenger,
		Producer:  producer,
	}
}

func (uc *SendLeadMessageUseCase) Execute(ctx context.Context, actingUserID, leadID, body string) error {
	role, caps := uc.Resolver.Execute(ctx, actingUserID)
	if !caps.CanSendMessage {
		return &DomainError{
			Code:    CodePermissionDenied,
			Message: "role does not grant outbound messaging",
		}
	}
	if body == "" {
		return &DomainError{
			Code:    CodeValidation,
			Message: "message body is required",
		}
	}

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return &DomainError{Code: CodeNotFound, Message: "lead " + leadID + " not found"}
		}
		return &TechnicalError{Code: "STORE_ERROR", Message: err.Error()}
	}
	if lead.Phone == "" {
		return &DomainError{
			Code:    CodeValidation,
			Message: "lead has no phone number",
		}
	}

	if err := uc.Messenger.SendMessage(lead.Phone, body); err != nil {
		return &TechnicalError{
			Code:    "MESSAGING_ERROR",
			Message: "provider rejected the message: " + err.Error(),
		}
	}

	if err := uc.Leads.IncrementMessageCount(ctx, lead.ID); err != nil {
		log.Printf("[messaging] message count bump failed for lead %s: %v", lead.ID, err)
	}

	// The actor's role rides along with the trigger; it is not
	// re-resolved when the worker applies it.
	if err := uc.Producer.PublishTrigger(ctx, lead.ID, TriggerOutboundMessageSent, actingUserID, role); err != nil {
		return &TechnicalError{
			Code:    "QUEUE_ERROR",
			Message: "message sent but trigger publish failed: " + err.Error(),
		}
	}

	return nil
}
