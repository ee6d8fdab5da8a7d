package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Conflict retry bounds for the read-decide-write sequence. BackOff
// implementations are stateful; a fresh one is built per call.
const (
	conflictRetries       = 2 // after the first attempt, 3 attempts total
	conflictRetryInterval = 50 * time.Millisecond
)

// casApply runs the full read -> decide -> compare-and-swap write sequence
// for one lead. A lost swap means another writer committed between our read
// and our write, so the whole sequence re-runs against fresh state; decide
// sees the new status and may reach a different verdict. Denials never
// retry.
func casApply(ctx context.Context, leads LeadRepositoryInterface, leadID string, decide func(lead *entity.Lead) (entity.Status, error)) (*entity.Lead, error) {
	var applied *entity.Lead

	op := func() error {
		lead, err := leads.FindByID(ctx, leadID)
		if err != nil {
			if errors.Is(err, entity.ErrLeadNotFound) {
				return backoff.Permanent(&DomainError{
					Code:    CodeNotFound,
					Message: "lead " + leadID + " not found",
				})
			}
			return backoff.Permanent(&TechnicalError{
				Code:    "STORE_ERROR",
				Message: "lead lookup failed: " + err.Error(),
			})
		}

		target, err := decide(lead)
		if err != nil {
			return backoff.Permanent(err)
		}

		if err := leads.UpdateStatus(ctx, lead.ID, lead.Status, target); err != nil {
			if errors.Is(err, entity.ErrStatusConflict) {
				return err // lost the race, re-run against fresh state
			}
			if errors.Is(err, entity.ErrLeadNotFound) {
				return backoff.Permanent(&DomainError{
					Code:    CodeNotFound,
					Message: "lead " + leadID + " deleted mid-flight",
				})
			}
			return backoff.Permanent(&TechnicalError{
				Code:    "STORE_ERROR",
				Message: "status update failed: " + err.Error(),
			})
		}

		lead.Status = target
		lead.UpdatedAt = time.Now()
		applied = lead
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(conflictRetryInterval), conflictRetries),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, entity.ErrStatusConflict) {
			return nil, &DomainError{
				Code:    CodeConflict,
				Message: "lead " + leadID + " kept changing concurrently, retries exhausted",
			}
		}
		return nil, err
	}

	return applied, nil
}
