package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type RequestManualTransitionInput struct {
	LeadID       string
	TargetStatus entity.Status
	ActingUserID string
}

// RequestManualTransitionUseCase is the board's drag-a-card operation:
// resolve the actor's role, authorize the move, apply it through the
// compare-and-swap gateway.
type RequestManualTransitionUseCase struct {
	Leads    LeadRepositoryInterface
	Resolver *ResolveRoleUseCase
}

func NewRequestManualTransitionUseCase(leads LeadRepositoryInterface, resolver *ResolveRoleUseCase) *RequestManualTransitionUseCase {
	return &RequestManualTransitionUseCase{
		Leads:    leads,
		Resolver: resolver,
	}
}

// Execute returns the lead in its new state on admission, or a
// *DomainError denial. Conflicts with concurrent writers are retried
// internally by re-running the whole authorize+apply sequence.
func (uc *RequestManualTransitionUseCase) Execute(ctx context.Context, input RequestManualTransitionInput) (*entity.Lead, error) {
	if !input.TargetStatus.IsValid() {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "unknown status: " + string(input.TargetStatus),
		}
	}

	role, caps := uc.Resolver.Execute(ctx, input.ActingUserID)

	lead, err := casApply(ctx, uc.Leads, input.LeadID, func(lead *entity.Lead) (entity.Status, error) {
		if err := Authorize(lead, input.TargetStatus, caps, CauseManual); err != nil {
			return "", err
		}
		return input.TargetStatus, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[pipeline] %s (%s) moved lead %s to %s", input.ActingUserID, role, lead.ID, lead.Status)
	return lead, nil
}
