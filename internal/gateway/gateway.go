package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GlebRadaev/bidcore/internal/config"
	"github.com/GlebRadaev/bidcore/pkg/clients"
	"go.uber.org/zap"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

type chargeRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	UserID         int    `json:"user_id"`
	AmountMinor    int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// Client captures settled charges through the payment gateway. It is
// called only after the ledger has already moved funds into
// charge_pending, so gateway latency and failures never sit inside a
// core transaction.
type Client struct {
	url    string
	client clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:    cfg.GatewayAddress,
		client: client,
	}
}

// Charge captures a payment. The idempotency key makes retries safe on
// the gateway side: the same key can never double-charge.
func (c *Client) Charge(idempotencyKey string, userID int, amountMinor int64, currency string) error {
	body, err := json.Marshal(chargeRequest{
		IdempotencyKey: idempotencyKey,
		UserID:         userID,
		AmountMinor:    amountMinor,
		Currency:       currency,
	})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequest(http.MethodPost, c.url+"/api/charges", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", idempotencyKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(retryInterval * time.Duration(attempt))
			continue
		}
		statusCode := resp.StatusCode
		resp.Body.Close()

		switch statusCode {
		case http.StatusOK, http.StatusCreated:
			return nil
		case http.StatusConflict:
			// Already captured under this key.
			return nil
		default:
			zap.L().Error("unexpected status code from payment gateway", zap.Int("status", statusCode), zap.String("key", idempotencyKey))
			lastErr = fmt.Errorf("unexpected status code from payment gateway: %d", statusCode)
			time.Sleep(retryInterval * time.Duration(attempt))
		}
	}
	return fmt.Errorf("failed to capture charge %s after %d retries: %w", idempotencyKey, maxRetries, lastErr)
}
