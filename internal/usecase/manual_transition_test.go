package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestManualTransitionAdmitsAdjacentEdge(t *testing.T) {
	repo := new(MockLeadRepository)
	lead := leadIn(entity.StatusNew)
	repo.On("FindByID", mock.Anything, "lead-1").Return(lead, nil)
	repo.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusNew, entity.StatusInitialContact).Return(nil)

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	got, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.StatusInitialContact,
		ActingUserID: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusInitialContact, got.Status)
	repo.AssertExpectations(t)
}

func TestManualTransitionDeniesSkippedStage(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(leadIn(entity.StatusNew), nil)

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.StatusProposalSent,
		ActingUserID: "user-1",
	})

	assert.Equal(t, CodeIllegalTransition, DomainCode(err))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestManualTransitionDeniesViewer(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(leadIn(entity.StatusNew), nil)

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleViewer))
	_, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.StatusInitialContact,
		ActingUserID: "user-1",
	})

	assert.Equal(t, CodePermissionDenied, DomainCode(err))
}

func TestManualTransitionRejectsUnknownStatus(t *testing.T) {
	repo := new(MockLeadRepository)

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.Status("archived"),
		ActingUserID: "user-1",
	})

	assert.Equal(t, CodeValidation, DomainCode(err))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestManualTransitionNotFoundPropagates(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrLeadNotFound)

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "ghost",
		TargetStatus: entity.StatusFollowUp,
		ActingUserID: "user-1",
	})

	assert.Equal(t, CodeNotFound, DomainCode(err))
}

func TestManualTransitionRetriesOnConflictThenSucceeds(t *testing.T) {
	// First attempt loses the swap; the sequence re-reads and lands.
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(leadIn(entity.StatusNew), nil)
	repo.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusNew, entity.StatusInitialContact).
		Return(entity.ErrStatusConflict).Once()
	repo.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusNew, entity.StatusInitialContact).
		Return(nil).Once()

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	got, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.StatusInitialContact,
		ActingUserID: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusInitialContact, got.Status)
	repo.AssertExpectations(t)
}

func TestManualTransitionConflictExhaustionSurfaces(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(leadIn(entity.StatusNew), nil)
	repo.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusNew, entity.StatusInitialContact).
		Return(entity.ErrStatusConflict)

	uc := NewRequestManualTransitionUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.StatusInitialContact,
		ActingUserID: "user-1",
	})

	assert.Equal(t, CodeConflict, DomainCode(err))
	repo.AssertNumberOfCalls(t, "UpdateStatus", 3)
}

func TestManualTransitionRoundTripAltersOnlyStatus(t *testing.T) {
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	original := &entity.Lead{
		ID:           "lead-1",
		OwnerID:      "user-1",
		Name:         "Acme Corp",
		Email:        "buyer@acme.test",
		Phone:        "+55 11 90000-0000",
		Channel:      entity.ChannelReferral,
		Status:       entity.StatusNew,
		MessageCount: 4,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	store := newFakeLeadStore(original)

	uc := NewRequestManualTransitionUseCase(store, fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), RequestManualTransitionInput{
		LeadID:       "lead-1",
		TargetStatus: entity.StatusInitialContact,
		ActingUserID: "user-1",
	})
	require.NoError(t, err)

	after, err := store.FindByID(context.Background(), "lead-1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusInitialContact, after.Status)
	assert.Equal(t, original.OwnerID, after.OwnerID)
	assert.Equal(t, original.Name, after.Name)
	assert.Equal(t, original.Email, after.Email)
	assert.Equal(t, original.Phone, after.Phone)
	assert.Equal(t, original.Channel, after.Channel)
	assert.Equal(t, original.MessageCount, after.MessageCount)
	assert.Equal(t, original.CreatedAt, after.CreatedAt)
	assert.Nil(t, after.FollowUpAt)
	assert.True(t, after.UpdatedAt.After(created), "last-touched must advance")
}
