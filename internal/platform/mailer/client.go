// Package mailer sends transactional email through a hosted email API.
// Delivery is strictly best-effort: a failure here must never change the
// outcome of the webhook that triggered it.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/gomonto/payments/pkg/config"
)

type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Client struct {
	endpoint string
	apiKey   string
	from     string
	http     *http.Client
	log      *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		endpoint: cfg.Mailer.Endpoint,
		apiKey:   cfg.Mailer.APIKey,
		from:     cfg.Mailer.From,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Send posts one email to the provider. With no API key configured it logs
// and drops the message so local environments run without a mail account.
func (c *Client) Send(ctx context.Context, e Email) error {
	if c.apiKey == "" {
		c.log.Infow("mailer disabled, dropping email", "to", e.To, "subject", e.Subject)
		return nil
	}
	if e.To == "" {
		return fmt.Errorf("email recipient is empty")
	}

	payload, err := json.Marshal(map[string]any{
		"from":    c.from,
		"to":      []string{e.To},
		"subject": e.Subject,
		"html":    e.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(body))
	}
	c.log.Infow("email sent", "to", e.To, "subject", e.Subject)
	return nil
}
