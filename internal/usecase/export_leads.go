package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ExportLeadsUseCase streams the acting user's leads as CSV for the
// dashboard's export button.
type ExportLeadsUseCase struct {
	Leads    LeadRepositoryInterface
	Resolver *ResolveRoleUseCase
}

func NewExportLeadsUseCase(leads LeadRepositoryInterface, resolver *ResolveRoleUseCase) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{
		Leads:    leads,
		Resolver: resolver,
	}
}

var exportHeader = []string{
	"id", "owner_id", "name", "email", "phone", "channel", "status",
	"message_count", "follow_up_at", "created_at", "updated_at",
}

func (uc *ExportLeadsUseCase) Execute(ctx context.Context, actingUserID string, w io.Writer) error {
	_, caps := uc.Resolver.Execute(ctx, actingUserID)
	if !caps.CanExport {
		return &DomainError{
			Code:    CodePermissionDenied,
			Message: "role does not grant exports",
		}
	}

	leads, err := uc.Leads.ListByOwner(ctx, actingUserID)
	if err != nil {
		return &TechnicalError{Code: "STORE_ERROR", Message: err.Error()}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, l := range leads {
		followUp := ""
		if l.FollowUpAt != nil {
			followUp = l.FollowUpAt.Format(time.RFC3339)
		}
		record := []string{
			l.ID,
			l.OwnerID,
			l.Name,
			l.Email,
			l.Phone,
			string(l.Channel),
			string(l.Status),
			strconv.Itoa(l.MessageCount),
			followUp,
			l.CreatedAt.Format(time.RFC3339),
			l.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
