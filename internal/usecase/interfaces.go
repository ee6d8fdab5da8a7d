package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeadRepositoryInterface is the sole mutation/query surface for lead
// records. UpdateStatus is a compare-and-swap keyed on the status the
// caller last observed; it returns entity.ErrStatusConflict when a
// concurrent writer got there first.
type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error)
	UpdateStatus(ctx context.Context, id string, expected, next entity.Status) error
	ScheduleFollowUp(ctx context.Context, id string, at time.Time) error
	IncrementMessageCount(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) (int64, error)
	CountByStatus(ctx context.Context, ownerID string) (map[entity.Status]int, error)
	ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*entity.Lead, error)
}

// RoleStoreInterface is the stored-role lookup. GetRole returns
// entity.ErrRoleNotFound for accounts that were never provisioned.
type RoleStoreInterface interface {
	GetRole(ctx context.Context, userID string) (entity.Role, error)
	SetDefaultRole(ctx context.Context, userID string, role entity.Role) error
}

// TriggerProducerInterface publishes automation triggers for async
// processing. The actor's role is captured here, at fire time, and rides
// along with the trigger instead of being re-resolved at apply time.
type TriggerProducerInterface interface {
	PublishTrigger(ctx context.Context, leadID string, trigger Trigger, actorID string, actorRole entity.Role) error
}

type EmailService interface {
	SendFollowUpAlert(lead *entity.Lead, due time.Time) error
}

type MessageService interface {
	SendMessage(to, body string) error
}
