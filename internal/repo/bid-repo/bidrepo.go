package bidrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"go.uber.org/zap"
)

const bidColumns = "id, auction_id, user_id, amount_minor, placed_at, superseded_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanBid(row pgx.Row) (*domain.Bid, error) {
	var b domain.Bid
	err := row.Scan(&b.ID, &b.AuctionID, &b.UserID, &b.AmountMinor, &b.PlacedAt, &b.SupersededAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	query := `
        INSERT INTO bids (auction_id, user_id, amount_minor)
        VALUES ($1, $2, $3)
        RETURNING ` + bidColumns + `
    `
	created, err := scanBid(r.db.QueryRow(ctx, query, bid.AuctionID, bid.UserID, bid.AmountMinor))
	if err != nil {
		zap.L().Error("failed to create bid", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, bidID int64) (*domain.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE id = $1
    `
	bid, err := scanBid(r.db.QueryRow(ctx, query, bidID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get bid", zap.Error(err))
		return nil, err
	}
	return bid, nil
}

// GetLeader returns the auction's single non-superseded bid, or nil.
func (r *Repository) GetLeader(ctx context.Context, auctionID int) (*domain.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE auction_id = $1 AND superseded_at IS NULL
    `
	bid, err := scanBid(r.db.QueryRow(ctx, query, auctionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get leading bid", zap.Error(err))
		return nil, err
	}
	return bid, nil
}

// MarkSuperseded displaces a bid. Guarded on superseded_at IS NULL so a
// bid is displaced at most once.
func (r *Repository) MarkSuperseded(ctx context.Context, bidID int64, at time.Time) (*domain.Bid, error) {
	query := `
        UPDATE bids
        SET superseded_at = $1
        WHERE id = $2 AND superseded_at IS NULL
        RETURNING ` + bidColumns + `
    `
	bid, err := scanBid(r.db.QueryRow(ctx, query, at, bidID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to supersede bid", zap.Error(err))
		return nil, err
	}
	return bid, nil
}

func (r *Repository) FindByAuctionID(ctx context.Context, auctionID int) ([]domain.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE auction_id = $1
        ORDER BY placed_at
    `
	rows, err := r.db.Query(ctx, query, auctionID)
	if err != nil {
		zap.L().Error("failed to fetch bids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var b domain.Bid
		err := rows.Scan(&b.ID, &b.AuctionID, &b.UserID, &b.AmountMinor, &b.PlacedAt, &b.SupersededAt)
		if err != nil {
			zap.L().Error("failed to scan bid row", zap.Error(err))
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, nil
}
