package notification

import (
	"context"
	"fmt"
)

// Medium names a delivery medium.
type Medium string

const (
	MediumEmail Medium = "email"
	MediumSMS   Medium = "sms"
)

// Channel delivers rendered messages. Implementations return errors and
// never panic past their boundary; a single call is a single attempt.
type Channel interface {
	SendEmail(ctx context.Context, subject, htmlBody string, recipients []string) (string, error)
	SendSMS(ctx context.Context, body, phone string) (string, error)
}

// ChannelError describes a failed delivery attempt.
type ChannelError struct {
	Medium     Medium
	Provider   string
	StatusCode int
	Err        error
}

func (e *ChannelError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s via %s: http %d: %v", e.Medium, e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s via %s: %v", e.Medium, e.Provider, e.Err)
}

func (e *ChannelError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Outcome records one delivery attempt.
type Outcome struct {
	Channel           Medium        `json:"channel"`
	Succeeded         bool          `json:"succeeded"`
	ProviderMessageID string        `json:"provider_message_id,omitempty"`
	Err               *ChannelError `json:"-"`
	Error             string        `json:"error,omitempty"`
}

func succeeded(medium Medium, providerID string) Outcome {
	return Outcome{Channel: medium, Succeeded: true, ProviderMessageID: providerID}
}

func failed(medium Medium, err *ChannelError) Outcome {
	return Outcome{Channel: medium, Err: err, Error: err.Error()}
}
