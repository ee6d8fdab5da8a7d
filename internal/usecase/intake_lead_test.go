package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestIntakeCreatesLeadInNewStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	uc := NewIntakeLeadUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	lead, err := uc.Execute(context.Background(), "user-1", IntakeLeadInput{
		Name:    "Acme Corp",
		Email:   "Buyer@Acme.Test",
		Channel: entity.ChannelReferral,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, "user-1", lead.OwnerID)
	assert.Equal(t, "buyer@acme.test", lead.Email, "email is normalized")
	assert.NotEmpty(t, lead.ID)
	repo.AssertExpectations(t)
}

func TestIntakeDeniedForViewer(t *testing.T) {
	repo := new(MockLeadRepository)

	uc := NewIntakeLeadUseCase(repo, fixedRoleResolver(entity.RoleViewer))
	_, err := uc.Execute(context.Background(), "user-1", IntakeLeadInput{
		Name:  "Acme Corp",
		Email: "buyer@acme.test",
	})

	assert.Equal(t, CodePermissionDenied, DomainCode(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIntakeRejectsMissingFields(t *testing.T) {
	uc := NewIntakeLeadUseCase(new(MockLeadRepository), fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), "user-1", IntakeLeadInput{Name: "No Email"})
	assert.Equal(t, CodeValidation, DomainCode(err))
}

func TestIntakeMapsDuplicateToValidation(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(entity.ErrDuplicateLead)

	uc := NewIntakeLeadUseCase(repo, fixedRoleResolver(entity.RoleOperator))
	_, err := uc.Execute(context.Background(), "user-1", IntakeLeadInput{
		Name:  "Acme Corp",
		Email: "buyer@acme.test",
	})

	assert.Equal(t, CodeValidation, DomainCode(err))
}
