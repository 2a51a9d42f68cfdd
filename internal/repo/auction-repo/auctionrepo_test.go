package auctionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

func auctionRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "product_id", "state", "starting_price", "min_increment", "currency", "current_bid_id", "start_at", "end_at", "created_at"})
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta(`
        INSERT INTO auctions (product_id, state, starting_price, min_increment, currency)
        VALUES ($1, $2, $3, $4, $5)
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates draft auction",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, domain.AuctionDraft, int64(1000), int64(100), "USD").
					WillReturnRows(auctionRows().AddRow(1, 1, domain.AuctionDraft, int64(1000), int64(100), "USD", (*int64)(nil), (*time.Time)(nil), (*time.Time)(nil), now))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, domain.AuctionDraft, int64(1000), int64(100), "USD").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), &domain.Auction{
				ProductID:     1,
				StartingPrice: 1000,
				MinIncrement:  100,
				Currency:      "USD",
			})

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, domain.AuctionDraft, result.State)
			}
		})
	}
}

func TestRepository_TransitionState(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta(`
        UPDATE auctions
        SET state = $1
        WHERE id = $2 AND state = $3
    `)

	tests := []struct {
		name      string
		from, to  domain.AuctionState
		mockSetup func()
		expectNil bool
	}{
		{
			name: "Guard matches, state moves forward",
			from: domain.AuctionLive,
			to:   domain.AuctionEnded,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.AuctionEnded, 1, domain.AuctionLive).
					WillReturnRows(auctionRows().AddRow(1, 1, domain.AuctionEnded, int64(1000), int64(100), "USD", (*int64)(nil), &now, &now, now))
			},
		},
		{
			name: "Guard mismatch returns nil",
			from: domain.AuctionLive,
			to:   domain.AuctionEnded,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.AuctionEnded, 1, domain.AuctionLive).
					WillReturnError(pgx.ErrNoRows)
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.TransitionState(context.Background(), 1, tt.from, tt.to)
			assert.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, tt.to, result.State)
			}
		})
	}
}

func TestRepository_Schedule(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	startAt := now.Add(time.Hour)
	endAt := now.Add(2 * time.Hour)
	query := regexp.QuoteMeta(`
        UPDATE auctions
        SET state = $1, start_at = $2, end_at = $3
        WHERE id = $4 AND state = $5
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expectNil bool
	}{
		{
			name: "Draft auction gets its window",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.AuctionScheduled, startAt, endAt, 1, domain.AuctionDraft).
					WillReturnRows(auctionRows().AddRow(1, 1, domain.AuctionScheduled, int64(1000), int64(100), "USD", (*int64)(nil), &startAt, &endAt, now))
			},
		},
		{
			name: "Non-draft auction returns nil",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.AuctionScheduled, startAt, endAt, 1, domain.AuctionDraft).
					WillReturnError(pgx.ErrNoRows)
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Schedule(context.Background(), 1, startAt, endAt)
			assert.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, domain.AuctionScheduled, result.State)
			}
		})
	}
}

func TestRepository_SetCurrentBid(t *testing.T) {
	repo, mock, tx := NewMock(t)
	query := regexp.QuoteMeta(`
        UPDATE auctions
        SET current_bid_id = $1
        WHERE id = $2
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully updates current bid",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectExec(query).
						WithArgs(int64(6), 1).
						WillReturnResult(pgxmock.NewResult("UPDATE", 1))
					return fn(ctx)
				})
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectExec(query).
						WithArgs(int64(6), 1).
						WillReturnError(errors.New("database error"))
					return fn(ctx)
				})
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.SetCurrentBid(context.Background(), 1, 6)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_FindOverdue(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	query := regexp.QuoteMeta(`
        SELECT id, product_id, state, starting_price, min_increment, currency, current_bid_id, start_at, end_at, created_at
        FROM auctions
        WHERE state = $1 AND end_at <= $2
        ORDER BY end_at
        LIMIT $3
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expected  int
		expectErr bool
	}{
		{
			name: "Returns live auctions past their window",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.AuctionLive, now, uint32(10)).
					WillReturnRows(auctionRows().
						AddRow(1, 1, domain.AuctionLive, int64(1000), int64(100), "USD", (*int64)(nil), &now, &now, now).
						AddRow(2, 2, domain.AuctionLive, int64(2000), int64(200), "USD", (*int64)(nil), &now, &now, now))
			},
			expected: 2,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(domain.AuctionLive, now, uint32(10)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			auctions, err := repo.FindOverdue(context.Background(), now, 10)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, auctions)
			} else {
				assert.NoError(t, err)
				assert.Len(t, auctions, tt.expected)
			}
		})
	}
}
