package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bidcore/internal/config"
	"github.com/GlebRadaev/bidcore/pkg/clients"
)

func NewMock(t *testing.T) (*Client, *clients.MockHTTPClientI) {
	cfg := &config.Config{GatewayAddress: "http://localhost:8082"}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := clients.NewMockHTTPClientI(ctrl)
	return New(cfg, client), client
}

func gatewayResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

func TestCharge(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(client *clients.MockHTTPClientI)
		expectedError string
	}{
		{
			name: "Successful capture",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().
					Do(gomock.Any()).
					DoAndReturn(func(req *http.Request) (*http.Response, error) {
						assert.Equal(t, http.MethodPost, req.Method)
						assert.Equal(t, "http://localhost:8082/api/charges", req.URL.String())
						assert.Equal(t, "auction:1:bid:6", req.Header.Get("Idempotency-Key"))

						body, _ := io.ReadAll(req.Body)
						var payload chargeRequest
						assert.NoError(t, json.Unmarshal(body, &payload))
						assert.Equal(t, "auction:1:bid:6", payload.IdempotencyKey)
						assert.Equal(t, 2, payload.UserID)
						assert.Equal(t, int64(1600), payload.AmountMinor)
						assert.Equal(t, "USD", payload.Currency)

						return gatewayResponse(http.StatusCreated), nil
					})
			},
		},
		{
			name: "Conflict means already captured",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().
					Do(gomock.Any()).
					Return(gatewayResponse(http.StatusConflict), nil)
			},
		},
		{
			name: "Transient failure then success",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().
					Do(gomock.Any()).
					Return(nil, errors.New("connection refused"))
				client.EXPECT().
					Do(gomock.Any()).
					Return(gatewayResponse(http.StatusOK), nil)
			},
		},
		{
			name: "Persistent failure after retries",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().
					Do(gomock.Any()).
					Return(gatewayResponse(http.StatusInternalServerError), nil).
					Times(3)
			},
			expectedError: "failed to capture charge auction:1:bid:6 after 3 retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gatewayClient, client := NewMock(t)
			tt.prepareMock(client)

			err := gatewayClient.Charge("auction:1:bid:6", 2, 1600, "USD")

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
