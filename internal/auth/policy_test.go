package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// identityGrid enumerates every flag combination over every role subset.
func identityGrid() []domain.Identity {
	var grid []domain.Identity
	for mask := 0; mask < 1<<len(domain.KnownRoles); mask++ {
		var roles []domain.Role
		for i, role := range domain.KnownRoles {
			if mask&(1<<i) != 0 {
				roles = append(roles, role)
			}
		}
		for flags := 0; flags < 8; flags++ {
			grid = append(grid, domain.Identity{
				ID:           fmt.Sprintf("id-%d-%d", mask, flags),
				IsStaff:      flags&1 != 0,
				IsSuperuser:  flags&2 != 0,
				IsProprietor: flags&4 != 0,
				Roles:        roles,
			})
		}
	}
	return grid
}

func authenticated(identity domain.Identity) IdentityContext {
	return NewIdentityContext(&identity)
}

func TestCreateServiceDeniedWithoutProprietorRoleOrStaff(t *testing.T) {
	for _, identity := range identityGrid() {
		if identity.IsStaff || identity.IsSuperuser || identity.HasRole(domain.RoleProprietor) {
			continue
		}
		decision := Authorize(authenticated(identity), ActionCreateService)
		assert.False(t, decision.Allowed, "identity %s", identity.ID)
		assert.Equal(t, ReasonInsufficientCapability, decision.Reason)
	}
}

// The proprietor flag alone does not grant the capability; the role does.
func TestCreateServiceAllowedForProprietorRole(t *testing.T) {
	for _, identity := range identityGrid() {
		if !identity.HasRole(domain.RoleProprietor) {
			continue
		}
		assert.True(t, Authorize(authenticated(identity), ActionCreateService).Allowed, "identity %s", identity.ID)
	}
}

func TestSuperuserWithoutStaffCannotCreateService(t *testing.T) {
	idc := authenticated(domain.Identity{ID: "root", IsSuperuser: true})
	assert.False(t, Authorize(idc, ActionCreateService).Allowed)
}

func TestAdminCapability(t *testing.T) {
	for _, identity := range identityGrid() {
		want := identity.IsStaff || identity.IsSuperuser
		for _, action := range []Action{ActionBlockUser, ActionChangeRole, ActionViewAdminDashboard, ActionRecordPayment} {
			decision := Authorize(authenticated(identity), action)
			assert.Equal(t, want, decision.Allowed, "identity %s action %s", identity.ID, action)
			if want {
				assert.Equal(t, ReasonAdmin, decision.Reason)
			}
		}
	}
}

func TestProprietorCapability(t *testing.T) {
	for _, identity := range identityGrid() {
		want := identity.HasRole(domain.RoleProprietor) || identity.IsSuperuser
		got := Authorize(authenticated(identity), ActionViewProprietorDashboard).Allowed
		assert.Equal(t, want, got, "identity %s", identity.ID)
	}
}

func TestAnonymousIsAlwaysDenied(t *testing.T) {
	for action := range actionCapabilities {
		decision := Authorize(Anonymous(), action)
		assert.False(t, decision.Allowed, "action %s", action)
		assert.Equal(t, ReasonNotAuthenticated, decision.Reason)
	}
}

func TestUnknownActionFailsClosed(t *testing.T) {
	idc := authenticated(domain.Identity{ID: "root", IsStaff: true, IsSuperuser: true, Roles: domain.KnownRoles})

	decision := Authorize(idc, Action("drop_database"))

	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonUnknownAction, decision.Reason)
}

func TestMissingRoleSetIsEmpty(t *testing.T) {
	idc := authenticated(domain.Identity{ID: "u"})

	assert.NotPanics(t, func() {
		assert.True(t, Authorize(idc, ActionViewUserDashboard).Allowed)
		assert.False(t, Authorize(idc, ActionViewProprietorDashboard).Allowed)
	})
}

func TestAuthorizeOwned(t *testing.T) {
	owner := authenticated(domain.Identity{ID: "owner", Roles: []domain.Role{domain.RoleUser}})
	stranger := authenticated(domain.Identity{ID: "stranger", Roles: []domain.Role{domain.RoleProprietor}})
	admin := authenticated(domain.Identity{ID: "admin", IsStaff: true})

	tests := []struct {
		name   string
		idc    IdentityContext
		owners []string
		allow  bool
		reason string
	}{
		{name: "creator", idc: owner, owners: []string{"owner"}, allow: true, reason: ReasonOwner},
		{name: "second owner", idc: owner, owners: []string{"creator", "owner"}, allow: true, reason: ReasonOwner},
		{name: "stranger", idc: stranger, owners: []string{"owner"}, reason: ReasonNotOwner},
		{name: "admin", idc: admin, owners: []string{"owner"}, allow: true, reason: ReasonAdmin},
		{name: "empty owner never matches", idc: authenticated(domain.Identity{}), owners: []string{""}, reason: ReasonNotOwner},
		{name: "anonymous", idc: Anonymous(), owners: []string{""}, reason: ReasonNotAuthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, action := range []Action{ActionEditClient, ActionDeleteClient, ActionEditService, ActionDeleteService} {
				require.True(t, IsOwnershipScoped(action))
				decision := AuthorizeOwned(tc.idc, action, tc.owners...)
				assert.Equal(t, tc.allow, decision.Allowed, string(action))
				assert.Equal(t, tc.reason, decision.Reason, string(action))
			}
		})
	}
}

func TestAuthorizeOwnedOnCoarseActionIgnoresOwners(t *testing.T) {
	idc := authenticated(domain.Identity{ID: "u"})
	assert.False(t, AuthorizeOwned(idc, ActionBlockUser, "u").Allowed)
}

type recordedDecision struct {
	action  string
	allowed bool
	reason  string
}

type decisionLog []recordedDecision

func (l *decisionLog) RecordAuthorization(action string, allowed bool, reason string) {
	*l = append(*l, recordedDecision{action, allowed, reason})
}

func TestPolicyRecordsDecisions(t *testing.T) {
	var log decisionLog
	policy := NewPolicy(nil, &log)

	policy.Authorize(Anonymous(), ActionBlockUser)
	policy.AuthorizeOwned(authenticated(domain.Identity{ID: "a"}), ActionEditClient, "a")

	assert.Equal(t, decisionLog{
		{action: "block_user", allowed: false, reason: ReasonNotAuthenticated},
		{action: "edit_client", allowed: true, reason: ReasonOwner},
	}, log)
}

func TestNilPolicyStillDecides(t *testing.T) {
	var policy *Policy
	assert.False(t, policy.Authorize(Anonymous(), ActionBlockUser).Allowed)
}
