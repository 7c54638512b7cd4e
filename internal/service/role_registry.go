package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

var (
	// ErrRoleNotFound is returned for role names outside the enumeration.
	ErrRoleNotFound = errors.New("role not found")
	// ErrIdentityNotFound is returned when the identity id does not resolve.
	ErrIdentityNotFound = errors.New("identity not found")
)

// RoleRegistry mediates every write to an identity's role set. Only members
// of domain.KnownRoles are ever stored.
//
// Updates are read-then-write without a lock; two concurrent assignments for
// the same identity resolve to whichever write lands last.
type RoleRegistry struct {
	identities repository.IdentityRepository
	logger     *zap.Logger
}

// NewRoleRegistry builds the registry over the identity store.
func NewRoleRegistry(identities repository.IdentityRepository, logger *zap.Logger) *RoleRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleRegistry{identities: identities, logger: logger}
}

// AssignRole replaces the whole role set with {roleName}. Flags are left
// untouched.
func (r *RoleRegistry) AssignRole(ctx context.Context, identityID, roleName string) error {
	role, ok := domain.ParseRole(roleName)
	if !ok {
		return roleNotFound(roleName)
	}

	identity, err := r.load(ctx, identityID)
	if err != nil {
		return err
	}
	identity.Roles = []domain.Role{role}
	if err := r.identities.Update(ctx, identity); err != nil {
		return r.writeError(identityID, err)
	}

	r.logger.Info("role assigned",
		zap.String("identity_id", identityID),
		zap.String("role", role.String()))
	return nil
}

// PromoteToProprietor sets the proprietor flag and adds Proprietor to the
// existing roles. Promoting twice is a no-op on the role set.
func (r *RoleRegistry) PromoteToProprietor(ctx context.Context, identityID string) error {
	identity, err := r.load(ctx, identityID)
	if err != nil {
		return err
	}
	identity.IsProprietor = true
	if !identity.HasRole(domain.RoleProprietor) {
		identity.Roles = append(identity.Roles, domain.RoleProprietor)
	}
	if err := r.identities.Update(ctx, identity); err != nil {
		return r.writeError(identityID, err)
	}

	r.logger.Info("identity promoted to proprietor", zap.String("identity_id", identityID))
	return nil
}

// CurrentRoles returns the stored role set. Unknown ids and store failures
// yield an empty set so authorization stays total.
func (r *RoleRegistry) CurrentRoles(ctx context.Context, identityID string) []domain.Role {
	identity, err := r.identities.GetByID(ctx, identityID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.Warn("role lookup failed", zap.String("identity_id", identityID), zap.Error(err))
		}
		return []domain.Role{}
	}
	roles := make([]domain.Role, 0, len(identity.Roles))
	return append(roles, identity.Roles...)
}

func (r *RoleRegistry) load(ctx context.Context, identityID string) (*domain.Identity, error) {
	return loadIdentity(ctx, r.identities, identityID)
}

func (r *RoleRegistry) writeError(identityID string, err error) error {
	return identityWriteError(identityID, err)
}

// loadIdentity fetches an identity, mapping a miss to ErrIdentityNotFound.
func loadIdentity(ctx context.Context, identities repository.IdentityRepository, identityID string) (*domain.Identity, error) {
	identity, err := identities.GetByID(ctx, identityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, identityNotFound(identityID)
	}
	if err != nil {
		return nil, storageError(err)
	}
	return identity, nil
}

func identityWriteError(identityID string, err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return identityNotFound(identityID)
	}
	return storageError(err)
}

func identityNotFound(identityID string) error {
	return errorutil.Wrap(errorutil.CodeIdentityNotFound,
		fmt.Sprintf("identity %s not found", identityID), http.StatusNotFound, ErrIdentityNotFound)
}

func roleNotFound(name string) error {
	return errorutil.Wrap(errorutil.CodeRoleNotFound,
		fmt.Sprintf("role %q is not defined", name), http.StatusBadRequest, ErrRoleNotFound)
}
