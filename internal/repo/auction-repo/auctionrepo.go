package auctionrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"go.uber.org/zap"
)

const auctionColumns = "id, product_id, state, starting_price, min_increment, currency, current_bid_id, start_at, end_at, created_at"

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	var a domain.Auction
	err := row.Scan(&a.ID, &a.ProductID, &a.State, &a.StartingPrice, &a.MinIncrement, &a.Currency, &a.CurrentBidID, &a.StartAt, &a.EndAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, auction *domain.Auction) (*domain.Auction, error) {
	query := `
        INSERT INTO auctions (product_id, state, starting_price, min_increment, currency)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + auctionColumns + `
    `
	created, err := scanAuction(r.db.QueryRow(ctx, query, auction.ProductID, domain.AuctionDraft, auction.StartingPrice, auction.MinIncrement, auction.Currency))
	if err != nil {
		zap.L().Error("failed to create auction", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, auctionID int) (*domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE id = $1
    `
	auction, err := scanAuction(r.db.QueryRow(ctx, query, auctionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get auction", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

// GetByIDForUpdate takes the auction row lock for the rest of the
// transaction. Callers must run inside TXManager.Begin.
func (r *Repository) GetByIDForUpdate(ctx context.Context, auctionID int) (*domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE id = $1
        FOR UPDATE
    `
	auction, err := scanAuction(r.db.QueryRow(ctx, query, auctionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to lock auction", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

// TransitionState moves the auction forward with a guard on the current
// state. Returns nil when the auction is not in the expected state, so
// concurrent transitions resolve to exactly one winner.
func (r *Repository) TransitionState(ctx context.Context, auctionID int, from, to domain.AuctionState) (*domain.Auction, error) {
	query := `
        UPDATE auctions
        SET state = $1
        WHERE id = $2 AND state = $3
        RETURNING ` + auctionColumns + `
    `
	auction, err := scanAuction(r.db.QueryRow(ctx, query, to, auctionID, from))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to transition auction state", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

// Schedule publishes a draft auction with its bidding window.
func (r *Repository) Schedule(ctx context.Context, auctionID int, startAt, endAt time.Time) (*domain.Auction, error) {
	query := `
        UPDATE auctions
        SET state = $1, start_at = $2, end_at = $3
        WHERE id = $4 AND state = $5
        RETURNING ` + auctionColumns + `
    `
	auction, err := scanAuction(r.db.QueryRow(ctx, query, domain.AuctionScheduled, startAt, endAt, auctionID, domain.AuctionDraft))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to schedule auction", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

func (r *Repository) SetCurrentBid(ctx context.Context, auctionID int, bidID int64) error {
	query := `
        UPDATE auctions
        SET current_bid_id = $1
        WHERE id = $2
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, bidID, auctionID)
		if err != nil {
			zap.L().Error("failed to set current bid", zap.Error(err))
			return err
		}
		return nil
	})
	return err
}

// FindDueToStart returns scheduled auctions whose window has opened.
func (r *Repository) FindDueToStart(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE state = $1 AND start_at <= $2
        ORDER BY start_at
        LIMIT $3
    `
	return r.findByWindow(ctx, query, domain.AuctionScheduled, now, limit)
}

// FindOverdue returns live auctions whose window has closed.
func (r *Repository) FindOverdue(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE state = $1 AND end_at <= $2
        ORDER BY end_at
        LIMIT $3
    `
	return r.findByWindow(ctx, query, domain.AuctionLive, now, limit)
}

func (r *Repository) findByWindow(ctx context.Context, query string, state domain.AuctionState, now time.Time, limit uint32) ([]domain.Auction, error) {
	rows, err := r.db.Query(ctx, query, state, now, limit)
	if err != nil {
		zap.L().Error("failed to fetch auctions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var auctions []domain.Auction
	for rows.Next() {
		var a domain.Auction
		err := rows.Scan(&a.ID, &a.ProductID, &a.State, &a.StartingPrice, &a.MinIncrement, &a.Currency, &a.CurrentBidID, &a.StartAt, &a.EndAt, &a.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan auction row", zap.Error(err))
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}
