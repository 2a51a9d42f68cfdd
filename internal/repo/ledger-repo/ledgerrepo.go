package ledgerrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"go.uber.org/zap"
)

const holdColumns = "id, user_id, bid_id, amount, status, request_key, created_at, updated_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanHold(row pgx.Row) (*domain.Hold, error) {
	var h domain.Hold
	err := row.Scan(&h.ID, &h.UserID, &h.BidID, &h.Amount, &h.Status, &h.RequestKey, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *Repository) CreateHold(ctx context.Context, hold *domain.Hold) (*domain.Hold, error) {
	query := `
        INSERT INTO holds (user_id, bid_id, amount, status, request_key)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + holdColumns + `
    `
	created, err := scanHold(r.db.QueryRow(ctx, query, hold.UserID, hold.BidID, hold.Amount, hold.Status, hold.RequestKey))
	if err != nil {
		zap.L().Error("failed to create hold", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetHoldByID(ctx context.Context, holdID int64) (*domain.Hold, error) {
	query := `
        SELECT ` + holdColumns + `
        FROM holds
        WHERE id = $1
    `
	hold, err := scanHold(r.db.QueryRow(ctx, query, holdID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get hold", zap.Error(err))
		return nil, err
	}
	return hold, nil
}

func (r *Repository) GetHoldByRequestKey(ctx context.Context, requestKey string) (*domain.Hold, error) {
	query := `
        SELECT ` + holdColumns + `
        FROM holds
        WHERE request_key = $1
    `
	hold, err := scanHold(r.db.QueryRow(ctx, query, requestKey))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get hold by request key", zap.Error(err))
		return nil, err
	}
	return hold, nil
}

func (r *Repository) GetHoldByBidID(ctx context.Context, bidID int64) (*domain.Hold, error) {
	query := `
        SELECT ` + holdColumns + `
        FROM holds
        WHERE bid_id = $1
    `
	hold, err := scanHold(r.db.QueryRow(ctx, query, bidID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get hold by bid", zap.Error(err))
		return nil, err
	}
	return hold, nil
}

// UpdateHoldStatus moves a hold between statuses with a guard on the
// current status, so a settled or released hold can never move again.
// Returns nil when the guard does not match.
func (r *Repository) UpdateHoldStatus(ctx context.Context, holdID int64, from, to domain.HoldStatus) (*domain.Hold, error) {
	query := `
        UPDATE holds
        SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3
        RETURNING ` + holdColumns + `
    `
	hold, err := scanHold(r.db.QueryRow(ctx, query, to, holdID, from))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to update hold status", zap.Error(err))
		return nil, err
	}
	return hold, nil
}

// FindLiveHoldsByAuction returns holds still pinning funds for any bid
// of the auction.
func (r *Repository) FindLiveHoldsByAuction(ctx context.Context, auctionID int) ([]domain.Hold, error) {
	query := `
        SELECT h.id, h.user_id, h.bid_id, h.amount, h.status, h.request_key, h.created_at, h.updated_at
        FROM holds h
        JOIN bids b ON b.id = h.bid_id
        WHERE b.auction_id = $1 AND h.status IN ('on_hold', 'locked')
    `
	rows, err := r.db.Query(ctx, query, auctionID)
	if err != nil {
		zap.L().Error("failed to fetch live holds", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var holds []domain.Hold
	for rows.Next() {
		var h domain.Hold
		err := rows.Scan(&h.ID, &h.UserID, &h.BidID, &h.Amount, &h.Status, &h.RequestKey, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			zap.L().Error("failed to scan hold row", zap.Error(err))
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, nil
}

func (r *Repository) AppendEvent(ctx context.Context, event *domain.LedgerEvent) error {
	query := `
        INSERT INTO ledger_events (
            user_id, hold_id, bid_id, event_type, amount,
            available_before, available_after,
            on_hold_before, on_hold_after,
            locked_before, locked_after
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.db.Exec(ctx, query,
		event.UserID, event.HoldID, event.BidID, event.EventType, event.Amount,
		event.AvailableBefore, event.AvailableAfter,
		event.OnHoldBefore, event.OnHoldAfter,
		event.LockedBefore, event.LockedAfter,
	)
	if err != nil {
		zap.L().Error("failed to append ledger event", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetEventsByUserID(ctx context.Context, userID int) ([]domain.LedgerEvent, error) {
	query := `
        SELECT id, user_id, hold_id, bid_id, event_type, amount,
               available_before, available_after,
               on_hold_before, on_hold_after,
               locked_before, locked_after, created_at
        FROM ledger_events
        WHERE user_id = $1
        ORDER BY created_at
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch ledger events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []domain.LedgerEvent
	for rows.Next() {
		var e domain.LedgerEvent
		err := rows.Scan(&e.ID, &e.UserID, &e.HoldID, &e.BidID, &e.EventType, &e.Amount,
			&e.AvailableBefore, &e.AvailableAfter,
			&e.OnHoldBefore, &e.OnHoldAfter,
			&e.LockedBefore, &e.LockedAfter, &e.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan ledger event row", zap.Error(err))
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
