package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/appointment-service/internal/config"
)

const sendGridProvider = "sendgrid"

// SendGridMailer posts to the SendGrid v3 mail API. Each call is a single
// HTTP attempt; there is no retry loop.
type SendGridMailer struct {
	cfg        config.SendGridConfig
	httpClient *http.Client
}

// NewSendGridMailer builds a mailer. A nil client uses http.DefaultClient.
func NewSendGridMailer(cfg config.SendGridConfig, httpClient *http.Client) (*SendGridMailer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SendGridMailer{cfg: cfg, httpClient: httpClient}, nil
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgMailSend struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

type sgErrorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Send delivers one HTML email and returns the X-Message-Id header.
func (m *SendGridMailer) Send(ctx context.Context, subject, htmlBody string, recipients []string) (string, error) {
	if len(recipients) == 0 {
		return "", m.fail(0, errors.New("no recipients"))
	}
	to := make([]sgAddress, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, sgAddress{Email: strings.TrimSpace(r)})
	}

	wire := sgMailSend{
		Personalizations: []sgPersonalization{{To: to}},
		From:             sgAddress{Email: m.cfg.FromEmail, Name: m.cfg.FromName},
		Subject:          subject,
		Content:          []sgContent{{Type: "text/html", Value: htmlBody}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(wire); err != nil {
		return "", m.fail(0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/v3/mail/send", &buf)
	if err != nil {
		return "", m.fail(0, err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", m.fail(0, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er sgErrorResponse
		if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 && er.Errors[0].Message != "" {
			return "", m.fail(resp.StatusCode, errors.New(er.Errors[0].Message))
		}
		return "", m.fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(raw))))
	}
	return strings.TrimSpace(resp.Header.Get("X-Message-Id")), nil
}

func (m *SendGridMailer) fail(status int, err error) *ChannelError {
	return &ChannelError{Medium: MediumEmail, Provider: sendGridProvider, StatusCode: status, Err: err}
}
