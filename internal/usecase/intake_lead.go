package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type IntakeLeadInput struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Channel entity.Channel `json:"channel"`
}

// IntakeLeadUseCase creates a new lead in status "new", owned by the
// acting user.
type IntakeLeadUseCase struct {
	Leads    LeadRepositoryInterface
	Resolver *ResolveRoleUseCase
}

func NewIntakeLeadUseCase(leads LeadRepositoryInterface, resolver *ResolveRoleUseCase) *IntakeLeadUseCase {
	return &IntakeLeadUseCase{
		Leads:    leads,
		Resolver: resolver,
	}
}

func (uc *IntakeLeadUseCase) Execute(ctx context.Context, actingUserID string, input IntakeLeadInput) (*entity.Lead, error) {
	_, caps := uc.Resolver.Execute(ctx, actingUserID)
	if !caps.CanCreate {
		return nil, &DomainError{
			Code:    CodePermissionDenied,
			Message: "role does not grant lead creation",
		}
	}

	channel := input.Channel
	if channel == "" {
		channel = entity.ChannelWebsite
	}

	lead, err := entity.NewLead(actingUserID, input.Name, input.Email, input.Phone, channel)
	if err != nil {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: err.Error(),
		}
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateLead) {
			return nil, &DomainError{
				Code:    CodeValidation,
				Message: "a lead with this email already exists",
			}
		}
		return nil, &TechnicalError{
			Code:    "STORE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	return lead, nil
}
