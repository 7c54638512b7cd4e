package notification_test

//go:generate mockgen -source=channel.go -destination=mocks/mocks.go -package=mocks Channel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/notification/mocks"
)

type recordedOutcome struct {
	kind, channel, outcome string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedOutcome
}

func (f *fakeRecorder) RecordNotification(kind, channel, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedOutcome{kind, channel, outcome})
}

type NotifierSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	channel  *mocks.MockChannel
	recorder *fakeRecorder
	logs     *observer.ObservedLogs
	notifier *notification.Notifier
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierSuite))
}

func (s *NotifierSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.channel = mocks.NewMockChannel(s.ctrl)
	s.recorder = &fakeRecorder{}
	core, logs := observer.New(zapcore.DebugLevel)
	s.logs = logs
	s.notifier = notification.NewNotifier(s.channel, zap.New(core), s.recorder, 100*time.Millisecond)
}

func (s *NotifierSuite) TearDownTest() {
	s.ctrl.Finish()
}

func blockedEvent(phone string) events.Event {
	return events.New(events.KindAccountBlocked, events.Recipient{
		IdentityID: "i-1",
		FirstName:  "Dana",
		Username:   "dana",
		Email:      "dana@example.com",
		Phone:      phone,
	}, "admin-1", events.AccountStatusPayload{Active: false})
}

func (s *NotifierSuite) TestEmailSucceedsWhileSMSFails() {
	s.channel.EXPECT().
		SendEmail(gomock.Any(), "Account blocked", gomock.Any(), []string{"dana@example.com"}).
		Return("sg-1", nil)
	s.channel.EXPECT().
		SendSMS(gomock.Any(), gomock.Any(), "+15550100").
		Return("", errors.New("provider down"))

	outcomes := s.notifier.Notify(context.Background(), blockedEvent("+15550100"))

	s.Require().Len(outcomes, 2)
	s.Equal(notification.MediumEmail, outcomes[0].Channel)
	s.True(outcomes[0].Succeeded)
	s.Equal("sg-1", outcomes[0].ProviderMessageID)

	s.Equal(notification.MediumSMS, outcomes[1].Channel)
	s.False(outcomes[1].Succeeded)
	s.Require().NotNil(outcomes[1].Err)
	s.Contains(outcomes[1].Error, "provider down")

	s.Equal(1, s.logs.FilterMessage("notification delivery failed").Len())
	s.ElementsMatch([]recordedOutcome{
		{"account_blocked", "email", "success"},
		{"account_blocked", "sms", "failure"},
	}, s.recorder.calls)
}

func (s *NotifierSuite) TestNoPhoneSkipsSMS() {
	s.channel.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("sg-2", nil)
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, phone := range []string{"", "   "} {
		outcomes := s.notifier.Notify(context.Background(), blockedEvent(phone))
		s.Require().Len(outcomes, 1)
		s.Equal(notification.MediumEmail, outcomes[0].Channel)
		s.True(outcomes[0].Succeeded)
	}
}

func (s *NotifierSuite) TestNoEmailSkipsEmail() {
	s.channel.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), "+15550100").Return("SM1", nil)

	event := blockedEvent("+15550100")
	event.Recipient.Email = ""
	outcomes := s.notifier.Notify(context.Background(), event)

	s.Require().Len(outcomes, 1)
	s.Equal(notification.MediumSMS, outcomes[0].Channel)
}

func (s *NotifierSuite) TestPanicIsRecoveredIntoFailedOutcome() {
	s.channel.EXPECT().
		SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, []string) (string, error) {
			panic("template exploded")
		})
	s.channel.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).Return("SM2", nil)

	outcomes := s.notifier.Notify(context.Background(), blockedEvent("+15550100"))

	s.Require().Len(outcomes, 2)
	s.False(outcomes[0].Succeeded)
	s.Contains(outcomes[0].Error, "template exploded")
	s.True(outcomes[1].Succeeded)
}

func (s *NotifierSuite) TestSlowChannelTimesOutWithoutBlockingTheOther() {
	s.channel.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("sg-3", nil)
	s.channel.EXPECT().
		SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	outcomes := s.notifier.Notify(context.Background(), blockedEvent("+15550100"))

	s.Require().Len(outcomes, 2)
	s.True(outcomes[0].Succeeded)
	s.False(outcomes[1].Succeeded)
	s.ErrorIs(outcomes[1].Err, context.DeadlineExceeded)
}

func (s *NotifierSuite) TestCancelledRequestStillDelivers() {
	s.channel.EXPECT().
		SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string, _ []string) (string, error) {
			return "sg-4", ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := s.notifier.Notify(ctx, blockedEvent(""))

	s.Require().Len(outcomes, 1)
	s.True(outcomes[0].Succeeded)
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *notification.Notifier
	if got := n.Notify(context.Background(), events.Event{}); got != nil {
		t.Fatalf("expected nil outcomes, got %v", got)
	}
}
