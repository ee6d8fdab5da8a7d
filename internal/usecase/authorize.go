package usecase

import (
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Cause identifies what initiated a transition: a user on the board, or
// a named automation trigger.
type Cause string

const CauseManual Cause = "manual"

// IsAutomation reports whether the cause is a named trigger rather than
// a user action.
func (c Cause) IsAutomation() bool {
	return c != CauseManual
}

// Authorize decides whether a lead may move to target. It returns nil to
// admit or a *DomainError naming the denial reason.
//
// The checks run in a fixed order: same-status no-op, terminal state,
// capability (manual causes only), pipeline legality. Automation causes
// skip the capability check because they run with the role captured when
// the trigger fired; re-resolving here would let a mid-flight role change
// retroactively invalidate an already-queued trigger.
func Authorize(lead *entity.Lead, target entity.Status, caps entity.CapabilitySet, cause Cause) error {
	if lead.Status == target {
		return &DomainError{
			Code:    CodeNoOp,
			Message: fmt.Sprintf("lead is already %s", target),
		}
	}

	if lead.Status.IsTerminal() {
		return &DomainError{
			Code:    CodeTerminalState,
			Message: fmt.Sprintf("lead is closed (%s) and cannot be reopened", lead.Status),
		}
	}

	if !cause.IsAutomation() && !caps.CanUpdate {
		return &DomainError{
			Code:    CodePermissionDenied,
			Message: "role does not grant lead updates",
		}
	}

	if !entity.IsLegalManualTransition(lead.Status, target) {
		return &DomainError{
			Code:    CodeIllegalTransition,
			Message: fmt.Sprintf("no pipeline edge from %s to %s", lead.Status, target),
		}
	}

	return nil
}
