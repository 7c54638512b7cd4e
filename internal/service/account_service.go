package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/config"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// AuthResult is returned by signup and login.
type AuthResult struct {
	Identity  *domain.Identity
	Token     string
	ExpiresAt time.Time
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// CreateUserInput is the admin account creation payload. Role defaults to User.
type CreateUserInput struct {
	RegisterInput
	Role string
}

// IdentityUpdate carries the editable account fields; nil leaves a field as is.
type IdentityUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// ListUsersFilter narrows the admin user listing.
type ListUsersFilter struct {
	Role   string
	Limit  int
	Offset int
}

// AccountService owns identity lifecycle: signup, login, admin management,
// role changes and password resets.
type AccountService struct {
	gate
	identities repository.IdentityRepository
	resets     repository.PasswordResetRepository
	roles      *RoleRegistry
	tokens     *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	resetURL   string
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps Dependencies, tokens *auth.TokenManager) *AccountService {
	return &AccountService{
		gate:       newGate(deps),
		identities: deps.Repos.Identities,
		resets:     deps.Repos.PasswordResets,
		roles:      NewRoleRegistry(deps.Repos.Identities, deps.Logger),
		tokens:     tokens,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   cfg.Auth.PasswordResetTTL(),
		resetURL:   cfg.Notification.ResetURLBase,
	}
}

// Roles exposes the registry backing role changes.
func (s *AccountService) Roles() *RoleRegistry {
	return s.roles
}

// Register creates a User account for an anonymous caller and signs it in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, []notification.Outcome, error) {
	identity, err := s.createIdentity(ctx, in, domain.RoleUser)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.issue(identity)
	if err != nil {
		return nil, nil, err
	}

	outcomes := s.emit(ctx, events.New(events.KindAccountCreated, events.RecipientFrom(identity), identity.ID,
		events.AccountCreatedPayload{Username: identity.Username}))
	return result, outcomes, nil
}

// Login accepts a username or an email address.
func (s *AccountService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, errorutil.NewValidationError("login and password required", nil)
	}

	var (
		identity *domain.Identity
		err      error
	)
	if strings.Contains(login, "@") {
		identity, err = s.identities.GetByEmail(ctx, normalizeEmail(login))
	} else {
		identity, err = s.identities.GetByUsername(ctx, login)
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, errorutil.NewUnauthorized(auth.ErrInvalidCredentials.Error())
	}
	if err != nil {
		return nil, storageError(err)
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, errorutil.NewUnauthorized(err.Error())
	}
	if !identity.IsActive {
		return nil, errorutil.NewUnauthorized("account is blocked")
	}
	return s.issue(identity)
}

// CreateUser provisions an account on behalf of an admin.
func (s *AccountService) CreateUser(ctx context.Context, idc auth.IdentityContext, in CreateUserInput) (*domain.Identity, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionCreateUser); err != nil {
		return nil, nil, err
	}
	role := domain.RoleUser
	if strings.TrimSpace(in.Role) != "" {
		parsed, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, nil, roleNotFound(in.Role)
		}
		role = parsed
	}

	identity, err := s.createIdentity(ctx, in.RegisterInput, role)
	if err != nil {
		return nil, nil, err
	}

	outcomes := s.emit(ctx, events.New(events.KindAccountCreated, events.RecipientFrom(identity), idc.ID(),
		events.AccountCreatedPayload{Username: identity.Username}))
	return identity, outcomes, nil
}

// UpdateUser edits another identity's account details.
func (s *AccountService) UpdateUser(ctx context.Context, idc auth.IdentityContext, id string, in IdentityUpdate) (*domain.Identity, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionUpdateUser); err != nil {
		return nil, nil, err
	}
	return s.updateIdentity(ctx, idc, id, in)
}

// UpdateProfile edits the caller's own account details.
func (s *AccountService) UpdateProfile(ctx context.Context, idc auth.IdentityContext, in IdentityUpdate) (*domain.Identity, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionUpdateProfile); err != nil {
		return nil, nil, err
	}
	return s.updateIdentity(ctx, idc, idc.ID(), in)
}

// DeleteUser removes an identity. Admins cannot delete themselves.
func (s *AccountService) DeleteUser(ctx context.Context, idc auth.IdentityContext, id string) error {
	if err := s.authorize(idc, auth.ActionDeleteUser); err != nil {
		return err
	}
	if id == idc.ID() {
		return errorutil.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.identities.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return identityNotFound(id)
		}
		return storageError(err)
	}
	s.logger.Info("identity deleted", zap.String("identity_id", id), zap.String("actor_id", idc.ID()))
	return nil
}

// BlockUser deactivates an account; the identity can no longer sign in.
func (s *AccountService) BlockUser(ctx context.Context, idc auth.IdentityContext, id string) (*domain.Identity, []notification.Outcome, error) {
	return s.setActive(ctx, idc, id, false)
}

// UnblockUser reactivates a blocked account.
func (s *AccountService) UnblockUser(ctx context.Context, idc auth.IdentityContext, id string) (*domain.Identity, []notification.Outcome, error) {
	return s.setActive(ctx, idc, id, true)
}

func (s *AccountService) setActive(ctx context.Context, idc auth.IdentityContext, id string, active bool) (*domain.Identity, []notification.Outcome, error) {
	action, kind := auth.ActionBlockUser, events.KindAccountBlocked
	if active {
		action, kind = auth.ActionUnblockUser, events.KindAccountUnblocked
	}
	if err := s.authorize(idc, action); err != nil {
		return nil, nil, err
	}
	if !active && id == idc.ID() {
		return nil, nil, errorutil.NewValidationError("cannot block your own account", nil)
	}

	identity, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, nil, err
	}
	identity.IsActive = active
	if err := s.identities.Update(ctx, identity); err != nil {
		return nil, nil, identityWriteError(id, err)
	}

	outcomes := s.emit(ctx, events.New(kind, events.RecipientFrom(identity), idc.ID(),
		events.AccountStatusPayload{Active: active}))
	return identity, outcomes, nil
}

// ChangeRole replaces the identity's role set with roleName.
func (s *AccountService) ChangeRole(ctx context.Context, idc auth.IdentityContext, id, roleName string) (*domain.Identity, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionChangeRole); err != nil {
		return nil, nil, err
	}
	role, ok := domain.ParseRole(roleName)
	if !ok {
		return nil, nil, roleNotFound(roleName)
	}

	before, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.roles.AssignRole(ctx, id, role.String()); err != nil {
		return nil, nil, err
	}
	after, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, nil, err
	}

	outcomes := s.emit(ctx, events.New(events.KindRoleChanged, events.RecipientFrom(after), idc.ID(),
		events.RoleChangedPayload{OldRole: before.PrimaryRole(), NewRole: role}))
	return after, outcomes, nil
}

// PromoteToProprietor upgrades an identity to proprietor, keeping its roles.
func (s *AccountService) PromoteToProprietor(ctx context.Context, idc auth.IdentityContext, id string) (*domain.Identity, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionPromoteToProprietor); err != nil {
		return nil, nil, err
	}

	before, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.roles.PromoteToProprietor(ctx, id); err != nil {
		return nil, nil, err
	}
	after, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, nil, err
	}

	outcomes := s.emit(ctx, events.New(events.KindRoleChanged, events.RecipientFrom(after), idc.ID(),
		events.RoleChangedPayload{OldRole: before.PrimaryRole(), NewRole: domain.RoleProprietor}))
	return after, outcomes, nil
}

// SendSecurityAlert warns an identity about suspicious account activity.
func (s *AccountService) SendSecurityAlert(ctx context.Context, idc auth.IdentityContext, id, detail string) ([]notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionSendSecurityAlert); err != nil {
		return nil, err
	}
	identity, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, err
	}
	return s.emit(ctx, events.New(events.KindSecurityAlert, events.RecipientFrom(identity), idc.ID(),
		events.SecurityAlertPayload{Detail: strings.TrimSpace(detail)})), nil
}

// RequestPasswordReset stores a single-use token and sends the reset link.
// Unknown or blocked addresses succeed silently so the endpoint cannot be
// used to probe for accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) ([]notification.Outcome, error) {
	errs := fieldErrors{}
	errs.email("email", email)
	if err := errs.err(); err != nil {
		return nil, err
	}

	identity, err := s.identities.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(err)
	}
	if !identity.IsActive {
		return nil, nil
	}

	token := uuid.NewString()
	if err := s.resets.Create(ctx, token, identity.ID, s.resetTTL); err != nil {
		return nil, storageError(err)
	}

	return s.emit(ctx, events.New(events.KindPasswordResetRequested, events.RecipientFrom(identity), "",
		events.PasswordResetRequestedPayload{Token: token, ResetLink: s.resetURL + token})), nil
}

// ConfirmPasswordReset consumes token and sets a new password.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	errs := fieldErrors{}
	errs.require("token", token)
	errs.password("password", newPassword)
	if err := errs.err(); err != nil {
		return err
	}

	identityID, err := s.resets.Consume(ctx, strings.TrimSpace(token))
	if errors.Is(err, sentinel.ErrExpired) {
		return errorutil.NewValidationError("reset token is invalid or expired", nil)
	}
	if err != nil {
		return storageError(err)
	}

	identity, err := loadIdentity(ctx, s.identities, identityID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	identity.PasswordHash = hash
	if err := s.identities.Update(ctx, identity); err != nil {
		return identityWriteError(identityID, err)
	}
	s.logger.Info("password reset completed", zap.String("identity_id", identityID))
	return nil
}

// Profile returns the caller's identity.
func (s *AccountService) Profile(ctx context.Context, idc auth.IdentityContext) (*domain.Identity, error) {
	if err := s.authorize(idc, auth.ActionViewProfile); err != nil {
		return nil, err
	}
	return loadIdentity(ctx, s.identities, idc.ID())
}

// ListUsers lists identities other than the caller.
func (s *AccountService) ListUsers(ctx context.Context, idc auth.IdentityContext, filter ListUsersFilter) ([]domain.Identity, error) {
	if err := s.authorize(idc, auth.ActionListUsers); err != nil {
		return nil, err
	}
	self := idc.ID()
	query := repository.IdentityFilter{ExcludeID: &self, Limit: filter.Limit, Offset: filter.Offset}
	if strings.TrimSpace(filter.Role) != "" {
		role, ok := domain.ParseRole(filter.Role)
		if !ok {
			return nil, roleNotFound(filter.Role)
		}
		query.Role = &role
	}
	identities, err := s.identities.List(ctx, query)
	if err != nil {
		return nil, storageError(err)
	}
	return identities, nil
}

func (s *AccountService) createIdentity(ctx context.Context, in RegisterInput, role domain.Role) (*domain.Identity, error) {
	errs := fieldErrors{}
	errs.require("username", in.Username)
	errs.email("email", in.Email)
	errs.password("password", in.Password)
	if err := errs.err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	identity := &domain.Identity{
		Username:     strings.TrimSpace(in.Username),
		Email:        normalizeEmail(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        optional(in.Phone),
		PasswordHash: hash,
		IsStaff:      role == domain.RoleAdmin,
		IsProprietor: role == domain.RoleProprietor,
		IsActive:     true,
		Roles:        []domain.Role{role},
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, errorutil.NewConflict("username or email already registered",
				map[string]any{"email": identity.Email, "username": identity.Username})
		}
		return nil, storageError(err)
	}

	s.logger.Info("identity created",
		zap.String("identity_id", identity.ID),
		zap.String("role", role.String()))
	return identity, nil
}

func (s *AccountService) updateIdentity(ctx context.Context, idc auth.IdentityContext, id string, in IdentityUpdate) (*domain.Identity, []notification.Outcome, error) {
	identity, err := loadIdentity(ctx, s.identities, id)
	if err != nil {
		return nil, nil, err
	}

	var changed []string
	if in.Email != nil {
		errs := fieldErrors{}
		errs.email("email", *in.Email)
		if err := errs.err(); err != nil {
			return nil, nil, err
		}
		if email := normalizeEmail(*in.Email); email != identity.Email {
			identity.Email = email
			changed = append(changed, "email")
		}
	}
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) != identity.FirstName {
		identity.FirstName = strings.TrimSpace(*in.FirstName)
		changed = append(changed, "first_name")
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) != identity.LastName {
		identity.LastName = strings.TrimSpace(*in.LastName)
		changed = append(changed, "last_name")
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != identity.PhoneNumber() {
		identity.Phone = optional(in.Phone)
		changed = append(changed, "phone_number")
	}
	if len(changed) == 0 {
		return identity, nil, nil
	}

	if err := s.identities.Update(ctx, identity); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, nil, errorutil.NewConflict("email already registered", map[string]any{"email": identity.Email})
		}
		return nil, nil, identityWriteError(id, err)
	}

	outcomes := s.emit(ctx, events.New(events.KindAccountUpdated, events.RecipientFrom(identity), idc.ID(),
		events.AccountUpdatedPayload{Fields: changed}))
	return identity, outcomes, nil
}

func (s *AccountService) issue(identity *domain.Identity) (*AuthResult, error) {
	roles := make([]string, 0, len(identity.Roles))
	for _, role := range identity.Roles {
		roles = append(roles, role.String())
	}
	token, exp, err := s.tokens.GenerateToken(identity.ID, identity.Username, roles)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return &AuthResult{Identity: identity, Token: token, ExpiresAt: exp}, nil
}
