package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/appointment-service/internal/events"
)

const defaultChannelTimeout = 10 * time.Second

// OutcomeRecorder receives one call per delivery attempt.
type OutcomeRecorder interface {
	RecordNotification(kind, channel, outcome string)
}

// Notifier turns domain events into email and SMS deliveries. Delivery is
// best effort: Notify never returns an error and never panics.
type Notifier struct {
	channel  Channel
	logger   *zap.Logger
	recorder OutcomeRecorder
	timeout  time.Duration
}

// NewNotifier wires a notifier. A nil logger or recorder is tolerated.
func NewNotifier(channel Channel, logger *zap.Logger, recorder OutcomeRecorder, timeout time.Duration) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultChannelTimeout
	}
	return &Notifier{
		channel:  channel,
		logger:   logger,
		recorder: recorder,
		timeout:  timeout,
	}
}

// Notify renders event and dispatches it to every medium the recipient has a
// destination for. Email and SMS run concurrently, each under its own
// timeout, and the returned outcomes are ordered email first, then sms.
// Media without a destination are not attempted and produce no outcome.
func (n *Notifier) Notify(ctx context.Context, event events.Event) []Outcome {
	if n == nil || n.channel == nil {
		return nil
	}

	msg := Render(event)
	email := strings.TrimSpace(event.Recipient.Email)
	phone := strings.TrimSpace(event.Recipient.Phone)

	// Dispatch outlives request cancellation; only the per-channel timeout applies.
	base := context.WithoutCancel(ctx)

	var (
		g        errgroup.Group
		emailOut *Outcome
		smsOut   *Outcome
	)
	if email != "" {
		g.Go(func() error {
			out := n.attempt(base, MediumEmail, func(c context.Context) (string, error) {
				return n.channel.SendEmail(c, msg.Subject, msg.HTMLBody, []string{email})
			})
			emailOut = &out
			return nil
		})
	}
	if phone != "" {
		g.Go(func() error {
			out := n.attempt(base, MediumSMS, func(c context.Context) (string, error) {
				return n.channel.SendSMS(c, msg.SMSBody, phone)
			})
			smsOut = &out
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make([]Outcome, 0, 2)
	for _, out := range []*Outcome{emailOut, smsOut} {
		if out == nil {
			continue
		}
		n.record(event, *out)
		outcomes = append(outcomes, *out)
	}
	return outcomes
}

func (n *Notifier) attempt(ctx context.Context, medium Medium, send func(context.Context) (string, error)) (out Outcome) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			out = failed(medium, &ChannelError{Medium: medium, Provider: "channel", Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	providerID, err := send(ctx)
	if err != nil {
		return failed(medium, asChannelError(medium, err))
	}
	return succeeded(medium, providerID)
}

func asChannelError(medium Medium, err error) *ChannelError {
	var chErr *ChannelError
	if errors.As(err, &chErr) {
		return chErr
	}
	return &ChannelError{Medium: medium, Provider: "channel", Err: err}
}

func (n *Notifier) record(event events.Event, out Outcome) {
	result := "success"
	if !out.Succeeded {
		result = "failure"
		n.logger.Warn("notification delivery failed",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.String("channel", string(out.Channel)),
			zap.String("identity_id", event.Recipient.IdentityID),
			zap.String("error", out.Error))
	} else {
		n.logger.Debug("notification delivered",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.String("channel", string(out.Channel)),
			zap.String("provider_message_id", out.ProviderMessageID))
	}
	if n.recorder != nil {
		n.recorder.RecordNotification(string(event.Kind), string(out.Channel), result)
	}
}
