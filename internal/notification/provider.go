package notification

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/config"
)

// EmailSender delivers one email.
type EmailSender interface {
	Send(ctx context.Context, subject, htmlBody string, recipients []string) (string, error)
}

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, body, phone string) (string, error)
}

// ProviderChannel combines an email provider and an SMS provider into a
// Channel. A missing provider fails its medium without touching the other.
type ProviderChannel struct {
	Email EmailSender
	SMS   SMSSender
}

func (p *ProviderChannel) SendEmail(ctx context.Context, subject, htmlBody string, recipients []string) (string, error) {
	if p == nil || p.Email == nil {
		return "", &ChannelError{Medium: MediumEmail, Provider: "none", Err: errors.New("email provider not configured")}
	}
	return p.Email.Send(ctx, subject, htmlBody, recipients)
}

func (p *ProviderChannel) SendSMS(ctx context.Context, body, phone string) (string, error) {
	if p == nil || p.SMS == nil {
		return "", &ChannelError{Medium: MediumSMS, Provider: "none", Err: errors.New("sms provider not configured")}
	}
	return p.SMS.Send(ctx, body, phone)
}

// NewChannel picks the delivery channel from configuration: real providers
// when credentials are present, the logging channel otherwise.
func NewChannel(cfg config.NotificationConfig, httpClient *http.Client, logger *zap.Logger) (Channel, error) {
	if !cfg.EmailEnabled() && !cfg.SMSEnabled() {
		logger.Warn("no notification providers configured; using log channel")
		return NewLogChannel(logger), nil
	}

	channel := &ProviderChannel{}
	if cfg.EmailEnabled() {
		mailer, err := NewSendGridMailer(cfg.SendGrid, httpClient)
		if err != nil {
			return nil, err
		}
		channel.Email = mailer
	}
	if cfg.SMSEnabled() {
		texter, err := NewTwilioTexter(cfg.Twilio, httpClient)
		if err != nil {
			return nil, err
		}
		channel.SMS = texter
	}
	return channel, nil
}
