package kyc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/GlebRadaev/bidcore/internal/config"
	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/pkg/clients"
	"go.uber.org/zap"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

type Response struct {
	UserID int    `json:"user_id"`
	State  string `json:"state"`
}

// Client reads identity-verification state from the KYC service. The
// service owns all state transitions; this client only reads them and
// submits review requests.
type Client struct {
	url    string
	client clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:    cfg.KYCAddress,
		client: client,
	}
}

func (c *Client) GetVerificationState(userID int) (domain.VerificationState, error) {
	url := c.url + "/api/verification/" + strconv.Itoa(userID)

	var statusCode int
	var respBody []byte
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		statusCode, respBody, _, err = c.client.Get(url, nil)
		if err != nil {
			if attempt < maxRetries {
				time.Sleep(retryInterval * time.Duration(attempt))
				continue
			}
			return "", fmt.Errorf("failed to fetch verification state for user %d after %d retries: %w", userID, maxRetries, err)
		}
		break
	}

	switch statusCode {
	case http.StatusOK:
		var response Response
		if err := json.Unmarshal(respBody, &response); err != nil {
			return "", fmt.Errorf("failed to parse verification response: %w", err)
		}
		return domain.VerificationState(response.State), nil
	case http.StatusNoContent, http.StatusNotFound:
		return domain.VerificationUnverified, nil
	default:
		zap.L().Error("unexpected status code from KYC service", zap.Int("status", statusCode), zap.Int("userID", userID))
		return "", fmt.Errorf("unexpected status code from KYC service: %d", statusCode)
	}
}

// SubmitVerification asks the KYC service to start a review for the
// user. The resulting state is pending until the review completes.
func (c *Client) SubmitVerification(userID int) (domain.VerificationState, error) {
	url := c.url + "/api/verification"

	body, err := json.Marshal(Response{UserID: userID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit verification for user %d: %w", userID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return domain.VerificationPending, nil
	default:
		zap.L().Error("unexpected status code from KYC service", zap.Int("status", resp.StatusCode), zap.Int("userID", userID))
		return "", fmt.Errorf("unexpected status code from KYC service: %d", resp.StatusCode)
	}
}
