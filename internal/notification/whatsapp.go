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
	"time"

	"github.com/spec-kit/salon-crm/internal/config"
)

const messagesPathFormat = "/2010-04-01/Accounts/%s/Messages.json"

// SendResult is the provider acknowledgment for an accepted message.
type SendResult struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// WhatsAppClient sends templated WhatsApp messages through the Twilio
// Content API. Sends are fire-and-forget: failures propagate unchanged and
// are never retried.
type WhatsAppClient struct {
	accountSID  string
	authToken   string
	from        string
	templateSID string
	baseURL     string
	httpClient  *http.Client
}

// NewWhatsAppClient builds a client from config. Returns nil when
// credentials are absent so callers can treat messaging as disabled.
func NewWhatsAppClient(cfg config.WhatsAppConfig) *WhatsAppClient {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil
	}
	return &WhatsAppClient{
		accountSID:  cfg.AccountSID,
		authToken:   cfg.AuthToken,
		from:        cfg.FromNumber,
		templateSID: cfg.TemplateSID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// SendTemplate delivers a templated message to the destination phone number.
// Variables are substituted into the provider-side content template by name.
func (c *WhatsAppClient) SendTemplate(ctx context.Context, to string, variables map[string]string) (*SendResult, error) {
	if c == nil {
		return nil, errors.New("whatsapp client not configured")
	}
	if strings.TrimSpace(to) == "" {
		return nil, errors.New("missing destination number")
	}

	contentVariables, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("whatsapp marshal variables: %w", err)
	}

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("ContentSid", c.templateSID)
	form.Set("ContentVariables", string(contentVariables))

	endpoint := c.baseURL + fmt.Sprintf(messagesPathFormat, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("whatsapp create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whatsapp send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out SendResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("whatsapp decode response: %w", err)
	}
	if strings.TrimSpace(out.SID) == "" {
		return nil, errors.New("whatsapp response missing message sid")
	}
	return &out, nil
}
