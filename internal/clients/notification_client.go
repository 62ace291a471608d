// Package clients contains HTTP clients for downstream services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/service"
)

// Ensure HTTPNotificationClient implements service.NotificationSender
var _ service.NotificationSender = (*HTTPNotificationClient)(nil)

// HTTPNotificationClient sends emails through the notification service.
type HTTPNotificationClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logrus.Entry
}

// NewHTTPNotificationClient creates a new HTTP-based notification client.
func NewHTTPNotificationClient(cfg config.ServiceConfig, logger *logrus.Logger) *HTTPNotificationClient {
	return &HTTPNotificationClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logger.WithField("component", "notification-client"),
	}
}

// SendEmail delivers an email to a single recipient.
func (c *HTTPNotificationClient) SendEmail(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/emails", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"to":    to,
			"error": err.Error(),
		}).Error("Notification request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	c.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")

	return nil
}
