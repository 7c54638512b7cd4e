package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/appointment-service/internal/config"
)

const twilioProvider = "twilio"

// TwilioTexter sends SMS through the Twilio Messages resource, one attempt
// per call.
type TwilioTexter struct {
	cfg        config.TwilioConfig
	httpClient *http.Client
}

// NewTwilioTexter builds a texter. A nil client uses http.DefaultClient.
func NewTwilioTexter(cfg config.TwilioConfig, httpClient *http.Client) (*TwilioTexter, error) {
	cfg.AccountSID = strings.TrimSpace(cfg.AccountSID)
	cfg.AuthToken = strings.TrimSpace(cfg.AuthToken)
	if cfg.AccountSID == "" {
		return nil, errors.New("missing TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		return nil, errors.New("missing TWILIO_AUTH_TOKEN")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.twilio.com/2010-04-01"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TwilioTexter{cfg: cfg, httpClient: httpClient}, nil
}

type twilioMessage struct {
	SID string `json:"sid"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message and returns the Twilio message SID.
func (t *TwilioTexter) Send(ctx context.Context, body, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", t.fail(0, errors.New("no recipient phone"))
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", t.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.cfg.BaseURL, url.PathEscape(t.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", t.fail(0, err)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", t.fail(0, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var te twilioError
		if json.Unmarshal(raw, &te) == nil && te.Message != "" {
			return "", t.fail(resp.StatusCode, fmt.Errorf("twilio error %d: %s", te.Code, te.Message))
		}
		return "", t.fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(raw))))
	}

	var msg twilioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", t.fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return msg.SID, nil
}

func (t *TwilioTexter) fail(status int, err error) *ChannelError {
	return &ChannelError{Medium: MediumSMS, Provider: twilioProvider, StatusCode: status, Err: err}
}
