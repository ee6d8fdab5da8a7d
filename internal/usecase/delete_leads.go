package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// DeleteLeadsUseCase covers single and bulk deletion. The pipeline core
// never deletes on its own; these are operator-facing, role-gated
// operations.
type DeleteLeadsUseCase struct {
	Leads    LeadRepositoryInterface
	Resolver *ResolveRoleUseCase
}

func NewDeleteLeadsUseCase(leads LeadRepositoryInterface, resolver *ResolveRoleUseCase) *DeleteLeadsUseCase {
	return &DeleteLeadsUseCase{
		Leads:    leads,
		Resolver: resolver,
	}
}

func (uc *DeleteLeadsUseCase) Execute(ctx context.Context, actingUserID, leadID string) error {
	_, caps := uc.Resolver.Execute(ctx, actingUserID)
	if !caps.CanDelete {
		return &DomainError{
			Code:    CodePermissionDenied,
			Message: "role does not grant lead deletion",
		}
	}

	if err := uc.Leads.Delete(ctx, leadID); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return &DomainError{Code: CodeNotFound, Message: "lead " + leadID + " not found"}
		}
		return &TechnicalError{Code: "STORE_ERROR", Message: err.Error()}
	}
	return nil
}

func (uc *DeleteLeadsUseCase) ExecuteBulk(ctx context.Context, actingUserID string, leadIDs []string) (int64, error) {
	_, caps := uc.Resolver.Execute(ctx, actingUserID)
	if !caps.CanBulkDelete {
		return 0, &DomainError{
			Code:    CodePermissionDenied,
			Message: "role does not grant bulk deletion",
		}
	}
	if len(leadIDs) == 0 {
		return 0, &DomainError{
			Code:    CodeValidation,
			Message: "no lead ids given",
		}
	}

	deleted, err := uc.Leads.DeleteBatch(ctx, leadIDs)
	if err != nil {
		return 0, &TechnicalError{Code: "STORE_ERROR", Message: err.Error()}
	}
	return deleted, nil
}
