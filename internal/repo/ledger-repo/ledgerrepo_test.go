package ledgerrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

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

func holdRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "bid_id", "amount", "status", "request_key", "created_at", "updated_at"})
}

func TestRepository_CreateHold(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	bidID := int64(7)
	query := regexp.QuoteMeta(`
        INSERT INTO holds (user_id, bid_id, amount, status, request_key)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, user_id, bid_id, amount, status, request_key, created_at, updated_at
    `)

	tests := []struct {
		name      string
		hold      *domain.Hold
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates hold",
			hold: &domain.Hold{UserID: 1, BidID: &bidID, Amount: 300, Status: domain.HoldOnHold, RequestKey: "req-1"},
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, &bidID, int64(300), domain.HoldOnHold, "req-1").
					WillReturnRows(holdRows().AddRow(int64(11), 1, &bidID, int64(300), domain.HoldOnHold, "req-1", now, now))
			},
			expectErr: false,
		},
		{
			name: "Duplicate request key",
			hold: &domain.Hold{UserID: 1, BidID: &bidID, Amount: 300, Status: domain.HoldOnHold, RequestKey: "req-1"},
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, &bidID, int64(300), domain.HoldOnHold, "req-1").
					WillReturnError(errors.New("duplicate key value violates unique constraint"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.CreateHold(context.Background(), tt.hold)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, int64(11), result.ID)
			}
		})
	}
}

func TestRepository_UpdateHoldStatus(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	bidID := int64(7)
	query := regexp.QuoteMeta(`
        UPDATE holds
        SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3
    `)

	tests := []struct {
		name      string
		from, to  domain.HoldStatus
		mockSetup func()
		expectNil bool
		expectErr bool
	}{
		{
			name: "Guard matches, status moves",
			from: domain.HoldOnHold,
			to:   domain.HoldLocked,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.HoldLocked, int64(11), domain.HoldOnHold).
					WillReturnRows(holdRows().AddRow(int64(11), 1, &bidID, int64(300), domain.HoldLocked, "req-1", now, now))
			},
		},
		{
			name: "Guard mismatch returns nil",
			from: domain.HoldOnHold,
			to:   domain.HoldLocked,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.HoldLocked, int64(11), domain.HoldOnHold).
					WillReturnError(pgx.ErrNoRows)
			},
			expectNil: true,
		},
		{
			name: "Database error",
			from: domain.HoldOnHold,
			to:   domain.HoldLocked,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.HoldLocked, int64(11), domain.HoldOnHold).
					WillReturnError(errors.New("database error"))
			},
			expectNil: true,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.UpdateHoldStatus(context.Background(), 11, tt.from, tt.to)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.expectNil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, tt.to, result.Status)
			}
		})
	}
}

func TestRepository_GetHoldByRequestKey(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	bidID := int64(7)
	query := regexp.QuoteMeta(`
        SELECT id, user_id, bid_id, amount, status, request_key, created_at, updated_at
        FROM holds
        WHERE request_key = $1
    `)

	tests := []struct {
		name       string
		requestKey string
		mockSetup  func()
		expectNil  bool
	}{
		{
			name:       "Existing key returns the hold",
			requestKey: "req-1",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("req-1").
					WillReturnRows(holdRows().AddRow(int64(11), 1, &bidID, int64(300), domain.HoldOnHold, "req-1", now, now))
			},
		},
		{
			name:       "Unknown key returns nil",
			requestKey: "req-missing",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("req-missing").
					WillReturnError(pgx.ErrNoRows)
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetHoldByRequestKey(context.Background(), tt.requestKey)
			assert.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, tt.requestKey, result.RequestKey)
			}
		})
	}
}

func TestRepository_FindLiveHoldsByAuction(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	bidID := int64(7)
	query := regexp.QuoteMeta(`
        SELECT h.id, h.user_id, h.bid_id, h.amount, h.status, h.request_key, h.created_at, h.updated_at
        FROM holds h
        JOIN bids b ON b.id = h.bid_id
        WHERE b.auction_id = $1 AND h.status IN ('on_hold', 'locked')
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expected  int
		expectErr bool
	}{
		{
			name: "Returns live holds",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnRows(holdRows().
						AddRow(int64(11), 1, &bidID, int64(300), domain.HoldLocked, "req-1", now, now).
						AddRow(int64(12), 2, &bidID, int64(400), domain.HoldOnHold, "req-2", now, now))
			},
			expected: 2,
		},
		{
			name: "No live holds",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnRows(holdRows())
			},
			expected: 0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			holds, err := repo.FindLiveHoldsByAuction(context.Background(), 1)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, holds)
			} else {
				assert.NoError(t, err)
				assert.Len(t, holds, tt.expected)
			}
		})
	}
}

func TestRepository_AppendEvent(t *testing.T) {
	repo, mock := NewMock(t)
	holdID := int64(11)
	query := regexp.QuoteMeta(`
        INSERT INTO ledger_events (
            user_id, hold_id, bid_id, event_type, amount,
            available_before, available_after,
            on_hold_before, on_hold_after,
            locked_before, locked_after
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `)

	event := &domain.LedgerEvent{
		UserID:          1,
		HoldID:          &holdID,
		EventType:       domain.EventReserve,
		Amount:          300,
		AvailableBefore: 1000,
		AvailableAfter:  700,
		OnHoldBefore:    0,
		OnHoldAfter:     300,
	}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully appends event",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(1, &holdID, (*int64)(nil), domain.EventReserve, int64(300),
						int64(1000), int64(700), int64(0), int64(300), int64(0), int64(0)).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(1, &holdID, (*int64)(nil), domain.EventReserve, int64(300),
						int64(1000), int64(700), int64(0), int64(300), int64(0), int64(0)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.AppendEvent(context.Background(), event)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
