package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ResolveRoleUseCase maps an authenticated identity to its role and
// capability set. Accounts without a stored role are provisioned with
// the default role on first sight.
type ResolveRoleUseCase struct {
	Roles RoleStoreInterface

	// AdminUserID is the single allow-listed identity that always
	// resolves to admin regardless of its stored role. Injected from
	// configuration; empty disables the override.
	AdminUserID string
}

func NewResolveRoleUseCase(roles RoleStoreInterface, adminUserID string) *ResolveRoleUseCase {
	return &ResolveRoleUseCase{
		Roles:       roles,
		AdminUserID: adminUserID,
	}
}

// Execute never fails: if the role store is unreachable the caller gets
// the default role. Failing open to operator keeps the dashboard usable
// during a store outage; failing open to admin is never acceptable, which
// is why the privileged override is checked before any store call and a
// store error can only ever yield the default.
func (uc *ResolveRoleUseCase) Execute(ctx context.Context, userID string) (entity.Role, entity.CapabilitySet) {
	if uc.AdminUserID != "" && userID == uc.AdminUserID {
		return entity.RoleAdmin, entity.Capabilities(entity.RoleAdmin)
	}

	role, err := uc.Roles.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrRoleNotFound) {
			// First sight of this account: provision the default.
			// Repeat calls hit the stored row and skip this branch.
			if provErr := uc.Roles.SetDefaultRole(ctx, userID, entity.DefaultRole); provErr != nil {
				log.Printf("[roles] default provisioning failed for %s: %v", userID, provErr)
			}
		} else {
			log.Printf("[roles] lookup failed for %s, falling back to %s: %v", userID, entity.DefaultRole, err)
		}
		return entity.DefaultRole, entity.Capabilities(entity.DefaultRole)
	}

	return role, entity.Capabilities(role)
}
