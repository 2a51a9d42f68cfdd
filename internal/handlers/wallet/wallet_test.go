package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/dto"
	"github.com/GlebRadaev/bidcore/internal/service/ledgerservice"
	"github.com/GlebRadaev/bidcore/pkg/auth"
)

func NewMock(t *testing.T) (*WalletHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestGetBalanceHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody dto.WalletResponseDTO
	}{
		{
			name: "Successful retrieval",
			prepareMock: func() {
				service.EXPECT().
					GetBalance(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(&domain.Wallet{
						UserID:    1,
						Currency:  "USD",
						Available: 1000,
						OnHold:    200,
						Locked:    300,
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: dto.WalletResponseDTO{
				Currency:  "USD",
				Available: 1000,
				OnHold:    200,
				Locked:    300,
			},
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().
					GetBalance(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, "/wallet", nil)
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()

			handler.GetBalance(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.WalletResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, tt.expectedBody, body)
			}
		})
	}
}

func TestDepositHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful deposit",
			body: `{"amount":500,"reference":"2377225624"}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, int64(500)).
					Return(&domain.Wallet{
						UserID:    1,
						Currency:  "USD",
						Available: 1500,
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid request body",
			body:          `{"amount":invalid}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name:          "Non-positive amount",
			body:          `{"amount":0,"reference":"2377225624"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "amount must be positive",
		},
		{
			name:          "Invalid payment reference",
			body:          `{"amount":500,"reference":"12345"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Invalid payment reference",
		},
		{
			name: "Wallet not found",
			body: `{"amount":500,"reference":"2377225624"}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, int64(500)).
					Return(nil, ledgerservice.ErrWalletNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "wallet not found",
		},
		{
			name: "Internal server error",
			body: `{"amount":500,"reference":"2377225624"}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, int64(500)).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/wallet/deposit", bytes.NewBufferString(tt.body))
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()

			handler.Deposit(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.DepositResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, int64(1500), body.Available)
			}
		})
	}
}
