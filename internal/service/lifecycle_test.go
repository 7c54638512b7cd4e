package service_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/config"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/notification/mocks"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/internal/repository/memory"
	"github.com/spec-kit/appointment-service/internal/service"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

type LifecycleSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	channel *mocks.MockChannel
	repos   repository.Repositories
	events  events.Dispatcher
	svc     *service.Services

	admin      *domain.Identity
	proprietor *domain.Identity
	user       *domain.Identity
	other      *domain.Identity
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.channel = mocks.NewMockChannel(s.ctrl)
	s.repos = memory.NewRepositories()

	logger := zaptest.NewLogger(s.T())
	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewInboxRecorder(s.repos.Notifications, logger).Register(dispatcher)
	s.events = dispatcher

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   5,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
		Notification: config.NotificationConfig{ResetURLBase: "https://app.test/reset?token="},
	}
	deps := service.Dependencies{
		Repos:      s.repos,
		Policy:     auth.NewPolicy(logger, nil),
		Notifier:   notification.NewNotifier(s.channel, logger, nil, 200*time.Millisecond),
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	s.svc = service.New(cfg, deps, auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes))

	s.admin = s.seed("admin", "", func(i *domain.Identity) { i.IsStaff = true; i.Roles = []domain.Role{domain.RoleAdmin} })
	s.proprietor = s.seed("prop", "", func(i *domain.Identity) {
		i.IsProprietor = true
		i.Roles = []domain.Role{domain.RoleProprietor}
	})
	s.user = s.seed("dana", "+15550100", nil)
	s.other = s.seed("eli", "", nil)
}

func (s *LifecycleSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LifecycleSuite) seed(username, phone string, mutate func(*domain.Identity)) *domain.Identity {
	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	s.Require().NoError(err)
	identity := &domain.Identity{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    username,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        []domain.Role{domain.RoleUser},
	}
	if phone != "" {
		identity.Phone = &phone
	}
	if mutate != nil {
		mutate(identity)
	}
	s.Require().NoError(s.repos.Identities.Create(s.ctx, identity))
	return identity
}

func (s *LifecycleSuite) as(identity *domain.Identity) auth.IdentityContext {
	stored, err := s.repos.Identities.GetByID(s.ctx, identity.ID)
	s.Require().NoError(err)
	return auth.NewIdentityContext(stored)
}

func (s *LifecycleSuite) inbox(identity *domain.Identity) []domain.Notification {
	list, err := s.repos.Notifications.ListUnread(s.ctx, identity.ID, 0, 0)
	s.Require().NoError(err)
	return list
}

func (s *LifecycleSuite) acceptEmails() {
	s.channel.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("sg-id", nil).AnyTimes()
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).Return("tw-id", nil).AnyTimes()
}

func (s *LifecycleSuite) TestAnonymousBlockIsRejectedWithoutSideEffects() {
	identity, outcomes, err := s.svc.Accounts.BlockUser(s.ctx, auth.Anonymous(), s.user.ID)

	s.Require().Error(err)
	s.True(errorutil.HasCode(err, errorutil.CodeUnauthorized))
	s.Nil(identity)
	s.Nil(outcomes)

	stored, err := s.repos.Identities.GetByID(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.True(stored.IsActive)
	s.Empty(s.inbox(s.user))
}

func (s *LifecycleSuite) TestNonAdminBlockIsForbidden() {
	_, _, err := s.svc.Accounts.BlockUser(s.ctx, s.as(s.proprietor), s.user.ID)

	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))
	stored, _ := s.repos.Identities.GetByID(s.ctx, s.user.ID)
	s.True(stored.IsActive)
}

func (s *LifecycleSuite) TestBlockStaysCommittedWhenSMSFails() {
	s.channel.EXPECT().
		SendEmail(gomock.Any(), "Account blocked", gomock.Any(), []string{"dana@example.com"}).
		Return("sg-1", nil)
	s.channel.EXPECT().
		SendSMS(gomock.Any(), gomock.Any(), "+15550100").
		Return("", errors.New("twilio unavailable"))

	identity, outcomes, err := s.svc.Accounts.BlockUser(s.ctx, s.as(s.admin), s.user.ID)

	s.Require().NoError(err)
	s.False(identity.IsActive)
	s.Require().Len(outcomes, 2)
	s.Equal(notification.MediumEmail, outcomes[0].Channel)
	s.True(outcomes[0].Succeeded)
	s.Equal(notification.MediumSMS, outcomes[1].Channel)
	s.False(outcomes[1].Succeeded)
	s.Contains(outcomes[1].Error, "twilio unavailable")

	stored, err := s.repos.Identities.GetByID(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.False(stored.IsActive)

	inbox := s.inbox(s.user)
	s.Require().Len(inbox, 1)
	s.Equal("Account blocked", inbox[0].Message)
}

func (s *LifecycleSuite) TestBlockSucceedsWhenSubscriberPanics() {
	s.acceptEmails()
	s.events.Subscribe(events.KindAccountBlocked, func(context.Context, events.Event) error {
		panic("subscriber bug")
	})

	var identity *domain.Identity
	var err error
	s.NotPanics(func() {
		identity, _, err = s.svc.Accounts.BlockUser(s.ctx, s.as(s.admin), s.user.ID)
	})

	s.Require().NoError(err)
	s.False(identity.IsActive)
	stored, err := s.repos.Identities.GetByID(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.False(stored.IsActive)
	s.Len(s.inbox(s.user), 1)
}

func (s *LifecycleSuite) TestIdentityWithoutPhoneGetsNoSMS() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "Account blocked", gomock.Any(), []string{"eli@example.com"}).Return("sg-2", nil)
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, outcomes, err := s.svc.Accounts.BlockUser(s.ctx, s.as(s.admin), s.other.ID)

	s.Require().NoError(err)
	s.Require().Len(outcomes, 1)
	s.Equal(notification.MediumEmail, outcomes[0].Channel)
}

func (s *LifecycleSuite) TestAdminCannotBlockSelf() {
	_, _, err := s.svc.Accounts.BlockUser(s.ctx, s.as(s.admin), s.admin.ID)
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))
}

func (s *LifecycleSuite) TestUnblockRestoresLogin() {
	s.acceptEmails()
	_, _, err := s.svc.Accounts.BlockUser(s.ctx, s.as(s.admin), s.user.ID)
	s.Require().NoError(err)

	_, err = s.svc.Accounts.Login(s.ctx, "dana", "password123")
	s.True(errorutil.HasCode(err, errorutil.CodeUnauthorized))

	_, _, err = s.svc.Accounts.UnblockUser(s.ctx, s.as(s.admin), s.user.ID)
	s.Require().NoError(err)

	result, err := s.svc.Accounts.Login(s.ctx, "dana@example.com", "password123")
	s.Require().NoError(err)
	s.NotEmpty(result.Token)
}

func (s *LifecycleSuite) TestChangeRoleReplacesRoleSet() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "Your role has changed", gomock.Any(), gomock.Any()).Return("sg-3", nil)
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).Return("tw-3", nil)

	identity, outcomes, err := s.svc.Accounts.ChangeRole(s.ctx, s.as(s.admin), s.user.ID, "Admin")

	s.Require().NoError(err)
	s.Len(outcomes, 2)
	s.Equal([]domain.Role{domain.RoleAdmin}, identity.Roles)
	s.Equal([]domain.Role{domain.RoleAdmin}, s.svc.Accounts.Roles().CurrentRoles(s.ctx, s.user.ID))
}

func (s *LifecycleSuite) TestChangeRoleRejectsUnknownRoleWithoutNotifying() {
	_, outcomes, err := s.svc.Accounts.ChangeRole(s.ctx, s.as(s.admin), s.user.ID, "Nonexistent")

	s.True(errors.Is(err, service.ErrRoleNotFound))
	s.True(errorutil.HasCode(err, errorutil.CodeRoleNotFound))
	s.Nil(outcomes)
	s.Equal([]domain.Role{domain.RoleUser}, s.svc.Accounts.Roles().CurrentRoles(s.ctx, s.user.ID))
	s.Empty(s.inbox(s.user))
}

func (s *LifecycleSuite) TestPromoteToProprietorIsAdditive() {
	s.acceptEmails()

	identity, _, err := s.svc.Accounts.PromoteToProprietor(s.ctx, s.as(s.admin), s.user.ID)

	s.Require().NoError(err)
	s.True(identity.IsProprietor)
	s.ElementsMatch([]domain.Role{domain.RoleUser, domain.RoleProprietor}, identity.Roles)

	// The promoted identity can now reach the proprietor dashboard.
	_, err = s.svc.Dashboards.Proprietor(s.ctx, s.as(s.user))
	s.NoError(err)
}

func (s *LifecycleSuite) TestCreateServiceCapability() {
	_, err := s.svc.Catalog.CreateService(s.ctx, s.as(s.user), service.ServiceInput{Name: "Massage", PriceCents: 5000})
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))

	svc, err := s.svc.Catalog.CreateService(s.ctx, s.as(s.proprietor), service.ServiceInput{Name: "Massage", PriceCents: 5000})
	s.Require().NoError(err)
	s.Equal(s.proprietor.ID, svc.CreatedBy)
	s.Equal(s.proprietor.ID, svc.OwnerID)

	_, err = s.svc.Catalog.CreateService(s.ctx, s.as(s.admin), service.ServiceInput{Name: "Facial", PriceCents: 3000})
	s.NoError(err)
}

func (s *LifecycleSuite) TestServiceOwnershipIncludesOwner() {
	svc, err := s.svc.Catalog.CreateService(s.ctx, s.as(s.admin), service.ServiceInput{
		Name:       "Haircut",
		PriceCents: 2500,
		OwnerID:    s.proprietor.ID,
	})
	s.Require().NoError(err)

	updated, err := s.svc.Catalog.UpdateService(s.ctx, s.as(s.proprietor), svc.ID, service.ServiceInput{Name: "Haircut deluxe", PriceCents: 4000})
	s.Require().NoError(err)
	s.Equal("Haircut deluxe", updated.Name)

	err = s.svc.Catalog.DeleteService(s.ctx, s.as(s.user), svc.ID)
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))
}

func (s *LifecycleSuite) TestClientOwnership() {
	client, err := s.svc.Clients.Create(s.ctx, s.as(s.proprietor), service.ClientInput{
		FirstName: "Ana",
		LastName:  "Diaz",
		Email:     "ana@example.com",
	})
	s.Require().NoError(err)

	_, err = s.svc.Clients.Update(s.ctx, s.as(s.user), client.ID, service.ClientInput{FirstName: "X", LastName: "Y", Email: "x@example.com"})
	s.Require().Error(err)
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))
	var domainErr *errorutil.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(auth.ReasonNotOwner, domainErr.Details["reason"])

	updated, err := s.svc.Clients.Update(s.ctx, s.as(s.admin), client.ID, service.ClientInput{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com"})
	s.Require().NoError(err)
	s.Equal("Ruiz", updated.LastName)
	s.Equal(s.proprietor.ID, updated.CreatedBy)

	s.Require().NoError(s.svc.Clients.Delete(s.ctx, s.as(s.proprietor), client.ID))
	err = s.svc.Clients.Delete(s.ctx, s.as(s.proprietor), client.ID)
	s.True(errorutil.HasCode(err, errorutil.CodeNotFound))
}

func (s *LifecycleSuite) TestClientEmailConflict() {
	in := service.ClientInput{FirstName: "Ana", LastName: "Diaz", Email: "ana@example.com"}
	_, err := s.svc.Clients.Create(s.ctx, s.as(s.proprietor), in)
	s.Require().NoError(err)

	in.Email = "ANA@example.com"
	_, err = s.svc.Clients.Create(s.ctx, s.as(s.user), in)
	s.True(errorutil.HasCode(err, errorutil.CodeConflict))
}

func (s *LifecycleSuite) TestRegisterSendsWelcome() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "Welcome to our platform", gomock.Any(), []string{"new@example.com"}).Return("sg-4", nil)

	result, outcomes, err := s.svc.Accounts.Register(s.ctx, service.RegisterInput{
		Username: "newbie",
		Email:    "New@Example.com",
		Password: "correct-horse",
	})

	s.Require().NoError(err)
	s.Len(outcomes, 1)
	s.NotEmpty(result.Token)
	s.Equal("new@example.com", result.Identity.Email)
	s.Equal([]domain.Role{domain.RoleUser}, result.Identity.Roles)

	_, _, err = s.svc.Accounts.Register(s.ctx, service.RegisterInput{Username: "other", Email: "new@example.com", Password: "correct-horse"})
	s.True(errorutil.HasCode(err, errorutil.CodeConflict))
}

func (s *LifecycleSuite) TestRegisterValidatesInput() {
	_, _, err := s.svc.Accounts.Register(s.ctx, service.RegisterInput{Username: "", Email: "not-an-email", Password: "short"})

	var domainErr *errorutil.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(errorutil.CodeValidation, domainErr.Code)
	s.Contains(domainErr.Details, "username")
	s.Contains(domainErr.Details, "email")
	s.Contains(domainErr.Details, "password")
}

func (s *LifecycleSuite) TestPasswordResetRoundTrip() {
	var body string
	s.channel.EXPECT().
		SendEmail(gomock.Any(), "Password reset request", gomock.Any(), []string{"eli@example.com"}).
		DoAndReturn(func(_ context.Context, _, htmlBody string, _ []string) (string, error) {
			body = htmlBody
			return "sg-5", nil
		})

	outcomes, err := s.svc.Accounts.RequestPasswordReset(s.ctx, "eli@example.com")
	s.Require().NoError(err)
	s.Len(outcomes, 1)

	match := regexp.MustCompile(`token=([0-9a-f-]{36})`).FindStringSubmatch(body)
	s.Require().Len(match, 2)

	s.Require().NoError(s.svc.Accounts.ConfirmPasswordReset(s.ctx, match[1], "brand-new-pass"))
	_, err = s.svc.Accounts.Login(s.ctx, "eli", "brand-new-pass")
	s.NoError(err)

	err = s.svc.Accounts.ConfirmPasswordReset(s.ctx, match[1], "another-pass")
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))
}

func (s *LifecycleSuite) TestPasswordResetForUnknownEmailIsSilent() {
	outcomes, err := s.svc.Accounts.RequestPasswordReset(s.ctx, "nobody@example.com")
	s.NoError(err)
	s.Nil(outcomes)
}

func (s *LifecycleSuite) TestPaymentReminderOnlyWhilePending() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "Payment reminder", gomock.Any(), gomock.Any()).Return("sg-6", nil).Times(1)
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), "+15550100").Return("tw-6", nil).Times(1)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	_, outcomes, err := s.svc.Billing.RecordPayment(s.ctx, s.as(s.admin), service.PaymentInput{
		IdentityID: s.user.ID, AmountCents: 1250, DueDate: due,
	})
	s.Require().NoError(err)
	s.Len(outcomes, 2)

	payment, outcomes, err := s.svc.Billing.RecordPayment(s.ctx, s.as(s.admin), service.PaymentInput{
		IdentityID: s.user.ID, AmountCents: 900, DueDate: due, Status: "paid",
	})
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusPaid, payment.Status)
	s.Nil(outcomes)
}

func (s *LifecycleSuite) TestRecordPaymentRequiresAdmin() {
	_, _, err := s.svc.Billing.RecordPayment(s.ctx, s.as(s.user), service.PaymentInput{
		IdentityID: s.user.ID, AmountCents: 100, DueDate: time.Now(),
	})
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))
}

func (s *LifecycleSuite) TestTransactionForUnknownIdentity() {
	_, _, err := s.svc.Billing.RecordTransaction(s.ctx, s.as(s.admin), "missing", 500)
	s.True(errors.Is(err, service.ErrIdentityNotFound))
}

func (s *LifecycleSuite) TestEventRegistrationIsUnique() {
	s.acceptEmails()
	event, _, err := s.svc.Events.CreateEvent(s.ctx, s.as(s.admin), service.EventInput{
		Title:     "Open day",
		EventDate: time.Date(2026, 12, 5, 10, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	registration, outcomes, err := s.svc.Events.RegisterForEvent(s.ctx, s.as(s.user), event.ID)
	s.Require().NoError(err)
	s.Equal(s.user.ID, registration.IdentityID)
	s.Len(outcomes, 2)

	_, _, err = s.svc.Events.RegisterForEvent(s.ctx, s.as(s.user), event.ID)
	s.True(errorutil.HasCode(err, errorutil.CodeConflict))

	_, _, err = s.svc.Events.RegisterForEvent(s.ctx, s.as(s.user), "missing")
	s.True(errorutil.HasCode(err, errorutil.CodeNotFound))
}

func (s *LifecycleSuite) TestSendMessageNotifiesRecipient() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "New message: Hello", gomock.Any(), []string{"eli@example.com"}).Return("sg-7", nil)

	msg, outcomes, err := s.svc.Messages.SendMessage(s.ctx, s.as(s.user), service.MessageInput{
		RecipientID: s.other.ID,
		Subject:     "Hello",
		Body:        "See you tomorrow",
	})

	s.Require().NoError(err)
	s.Equal(s.user.ID, msg.SenderID)
	s.Len(outcomes, 1)

	received, err := s.svc.Messages.Received(s.ctx, s.as(s.other), 10, 0)
	s.Require().NoError(err)
	s.Len(received, 1)
}

func (s *LifecycleSuite) TestInboxMarkReadIsOwnerOnly() {
	s.acceptEmails()
	_, _, err := s.svc.Accounts.BlockUser(s.ctx, s.as(s.admin), s.other.ID)
	s.Require().NoError(err)
	_, _, err = s.svc.Accounts.UnblockUser(s.ctx, s.as(s.admin), s.other.ID)
	s.Require().NoError(err)

	entries, err := s.svc.Inbox.Unread(s.ctx, s.as(s.other), 10, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	err = s.svc.Inbox.MarkRead(s.ctx, s.as(s.admin), entries[0].ID)
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))

	s.Require().NoError(s.svc.Inbox.MarkRead(s.ctx, s.as(s.other), entries[0].ID))
	entries, err = s.svc.Inbox.Unread(s.ctx, s.as(s.other), 10, 0)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *LifecycleSuite) TestAppointmentBooking() {
	svc, err := s.svc.Catalog.CreateService(s.ctx, s.as(s.proprietor), service.ServiceInput{Name: "Massage", PriceCents: 5000})
	s.Require().NoError(err)
	specialist, err := s.svc.Catalog.CreateSpecialist(s.ctx, s.as(s.admin), service.SpecialistInput{
		IdentityID: s.proprietor.ID,
		Speciality: "Massage",
	})
	s.Require().NoError(err)

	_, err = s.svc.Appointments.Create(s.ctx, s.as(s.user), service.AppointmentInput{
		ServiceID:    "missing",
		SpecialistID: specialist.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))

	appointment, err := s.svc.Appointments.Create(s.ctx, s.as(s.user), service.AppointmentInput{
		ServiceID:    svc.ID,
		SpecialistID: specialist.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	s.Require().NoError(err)

	dashboard, err := s.svc.Dashboards.User(s.ctx, s.as(s.user))
	s.Require().NoError(err)
	s.Len(dashboard.Appointments, 1)
	s.Len(dashboard.Proprietors, 1)

	err = s.svc.Appointments.Delete(s.ctx, s.as(s.user), appointment.ID)
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))
	s.NoError(s.svc.Appointments.Delete(s.ctx, s.as(s.admin), appointment.ID))
}

func (s *LifecycleSuite) TestDashboardsAreRoleGated() {
	_, err := s.svc.Dashboards.Admin(s.ctx, s.as(s.user))
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))

	_, err = s.svc.Dashboards.Proprietor(s.ctx, s.as(s.user))
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))

	dashboard, err := s.svc.Dashboards.Admin(s.ctx, s.as(s.admin))
	s.Require().NoError(err)
	s.Equal(4, dashboard.TotalUsers)
}

func (s *LifecycleSuite) TestListUsersExcludesCaller() {
	users, err := s.svc.Accounts.ListUsers(s.ctx, s.as(s.admin), service.ListUsersFilter{})
	s.Require().NoError(err)
	s.Len(users, 3)
	for _, u := range users {
		s.NotEqual(s.admin.ID, u.ID)
	}

	proprietors, err := s.svc.Accounts.ListUsers(s.ctx, s.as(s.admin), service.ListUsersFilter{Role: "proprietor"})
	s.Require().NoError(err)
	s.Len(proprietors, 1)
}

func (s *LifecycleSuite) TestDeleteUser() {
	s.Require().NoError(s.svc.Accounts.DeleteUser(s.ctx, s.as(s.admin), s.other.ID))

	err := s.svc.Accounts.DeleteUser(s.ctx, s.as(s.admin), s.other.ID)
	s.True(errors.Is(err, service.ErrIdentityNotFound))

	err = s.svc.Accounts.DeleteUser(s.ctx, s.as(s.admin), s.admin.ID)
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))
}

func (s *LifecycleSuite) TestUpdateProfileReportsChangedFields() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "Account information updated", gomock.Any(), gomock.Any()).Return("sg-8", nil)
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).Return("tw-8", nil)
	name := "Dana Maria"

	identity, outcomes, err := s.svc.Accounts.UpdateProfile(s.ctx, s.as(s.user), service.IdentityUpdate{FirstName: &name})

	s.Require().NoError(err)
	s.Equal("Dana Maria", identity.FirstName)
	s.Len(outcomes, 2)

	// Unchanged fields produce no event.
	_, outcomes, err = s.svc.Accounts.UpdateProfile(s.ctx, s.as(s.user), service.IdentityUpdate{FirstName: &name})
	s.Require().NoError(err)
	s.Nil(outcomes)
}

func (s *LifecycleSuite) TestSecurityAlertReachesBothChannels() {
	s.channel.EXPECT().SendEmail(gomock.Any(), "Security alert", gomock.Any(), []string{"dana@example.com"}).Return("sg-9", nil)
	s.channel.EXPECT().SendSMS(gomock.Any(), "Security alert: Login from a new device", "+15550100").Return("tw-9", nil)

	outcomes, err := s.svc.Accounts.SendSecurityAlert(s.ctx, s.as(s.admin), s.user.ID, " Login from a new device ")
	s.Require().NoError(err)
	s.Len(outcomes, 2)

	_, err = s.svc.Accounts.SendSecurityAlert(s.ctx, s.as(s.proprietor), s.user.ID, "")
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))
}

func (s *LifecycleSuite) TestCreateSpecialistValidation() {
	_, err := s.svc.Catalog.CreateSpecialist(s.ctx, s.as(s.proprietor), service.SpecialistInput{
		IdentityID: s.proprietor.ID,
		Speciality: "Hair",
	})
	s.True(errorutil.HasCode(err, errorutil.CodeForbidden))

	_, err = s.svc.Catalog.CreateSpecialist(s.ctx, s.as(s.admin), service.SpecialistInput{
		IdentityID: "missing",
		Speciality: "Hair",
	})
	s.True(errors.Is(err, service.ErrIdentityNotFound))

	_, err = s.svc.Catalog.CreateSpecialist(s.ctx, s.as(s.admin), service.SpecialistInput{IdentityID: s.proprietor.ID})
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))

	specialists, err := s.svc.Catalog.ListSpecialists(s.ctx, s.as(s.user), 10, 0)
	s.Require().NoError(err)
	s.Empty(specialists)
}

func (s *LifecycleSuite) TestListEventsNeedsAuthentication() {
	s.acceptEmails()
	_, _, err := s.svc.Events.CreateEvent(s.ctx, s.as(s.admin), service.EventInput{
		Title:     "Workshop",
		EventDate: time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	list, err := s.svc.Events.ListEvents(s.ctx, s.as(s.user), 10, 0)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.svc.Events.ListEvents(s.ctx, auth.Anonymous(), 10, 0)
	s.True(errorutil.HasCode(err, errorutil.CodeUnauthorized))
}

func (s *LifecycleSuite) TestFeedbackAppearsOnDashboards() {
	testimonial, err := s.svc.Feedback.AddTestimonial(s.ctx, s.as(s.user), "  Friendly staff  ")
	s.Require().NoError(err)
	s.Equal("Friendly staff", testimonial.Comment)
	s.Equal(s.user.ID, testimonial.IdentityID)

	comment, err := s.svc.Feedback.AddComment(s.ctx, s.as(s.other), "Open on Sundays?")
	s.Require().NoError(err)

	userView, err := s.svc.Dashboards.User(s.ctx, s.as(s.other))
	s.Require().NoError(err)
	s.Require().Len(userView.Testimonials, 1)
	s.Equal(testimonial.ID, userView.Testimonials[0].ID)
	s.Require().Len(userView.Comments, 1)
	s.Equal(comment.ID, userView.Comments[0].ID)

	proprietorView, err := s.svc.Dashboards.Proprietor(s.ctx, s.as(s.proprietor))
	s.Require().NoError(err)
	s.Require().Len(proprietorView.Comments, 1)
	s.Equal("Open on Sundays?", proprietorView.Comments[0].Content)

	list, err := s.svc.Feedback.ListTestimonials(s.ctx, s.as(s.admin), 10, 0)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *LifecycleSuite) TestFeedbackRequiresAuthorAndText() {
	_, err := s.svc.Feedback.AddTestimonial(s.ctx, auth.Anonymous(), "Great")
	s.True(errorutil.HasCode(err, errorutil.CodeUnauthorized))

	_, err = s.svc.Feedback.AddComment(s.ctx, s.as(s.user), "   ")
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))

	_, err = s.svc.Feedback.AddTestimonial(s.ctx, s.as(s.user), strings.Repeat("x", 2001))
	s.True(errorutil.HasCode(err, errorutil.CodeValidation))

	list, err := s.repos.Testimonials.List(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Empty(list)
}
