package walletrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()
	return repo, mockDB
}

func walletRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "currency", "available", "on_hold", "locked", "deposited_total", "settled_total"})
}

func TestRepository_GetByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        SELECT id, user_id, currency, available, on_hold, locked, deposited_total, settled_total
        FROM wallets
        WHERE user_id = $1
    `)

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		result    *domain.Wallet
	}{
		{
			name:   "Valid userID returns wallet",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnRows(walletRows().AddRow(1, 1, "USD", int64(1000), int64(200), int64(300), int64(1500), int64(0)))
			},
			expectErr: false,
			result: &domain.Wallet{
				ID:             1,
				UserID:         1,
				Currency:       "USD",
				Available:      1000,
				OnHold:         200,
				Locked:         300,
				DepositedTotal: 1500,
				SettledTotal:   0,
			},
		},
		{
			name:   "Non-existing userID returns nil",
			userID: 99,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(99).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetByUserID(context.Background(), tt.userID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.result == nil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        INSERT INTO wallets (user_id, currency)
        VALUES ($1, $2)
        RETURNING id, user_id, currency, available, on_hold, locked, deposited_total, settled_total
    `)

	tests := []struct {
		name      string
		userID    int
		currency  string
		mockSetup func()
		expectErr bool
	}{
		{
			name:     "Successfully creates empty wallet",
			userID:   1,
			currency: "USD",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, "USD").
					WillReturnRows(walletRows().AddRow(1, 1, "USD", int64(0), int64(0), int64(0), int64(0), int64(0)))
			},
			expectErr: false,
		},
		{
			name:     "Database error",
			userID:   1,
			currency: "USD",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, "USD").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.userID, tt.currency)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, int64(0), result.Available)
			}
		})
	}
}

func TestRepository_Reserve(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        UPDATE wallets
        SET available = available - $1, on_hold = on_hold + $1
        WHERE user_id = $2 AND available >= $1
    `)

	tests := []struct {
		name      string
		userID    int
		amount    int64
		mockSetup func()
		expectErr bool
		result    *domain.Wallet
	}{
		{
			name:   "Sufficient funds move to on_hold",
			userID: 1,
			amount: 300,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(300), 1).
					WillReturnRows(walletRows().AddRow(1, 1, "USD", int64(700), int64(300), int64(0), int64(1000), int64(0)))
			},
			expectErr: false,
			result: &domain.Wallet{
				ID:             1,
				UserID:         1,
				Currency:       "USD",
				Available:      700,
				OnHold:         300,
				DepositedTotal: 1000,
			},
		},
		{
			name:   "Insufficient funds fail the predicate, no row returned",
			userID: 1,
			amount: 5000,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(5000), 1).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:   "Database error",
			userID: 1,
			amount: 300,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(300), 1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Reserve(context.Background(), tt.userID, tt.amount)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.result == nil {
				assert.Nil(t, result)
			} else {
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_Charge(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        UPDATE wallets
        SET locked = locked - $1, settled_total = settled_total + $1
        WHERE user_id = $2 AND locked >= $1
    `)

	tests := []struct {
		name      string
		amount    int64
		mockSetup func()
		result    *domain.Wallet
	}{
		{
			name:   "Locked funds become settled",
			amount: 300,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(300), 1).
					WillReturnRows(walletRows().AddRow(1, 1, "USD", int64(700), int64(0), int64(0), int64(1000), int64(300)))
			},
			result: &domain.Wallet{
				ID:             1,
				UserID:         1,
				Currency:       "USD",
				Available:      700,
				DepositedTotal: 1000,
				SettledTotal:   300,
			},
		},
		{
			name:   "Nothing locked, predicate fails",
			amount: 300,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(300), 1).
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Charge(context.Background(), 1, tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.result, result)
		})
	}
}
