package walletrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"go.uber.org/zap"
)

const walletColumns = "id, user_id, currency, available, on_hold, locked, deposited_total, settled_total"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Currency, &w.Available, &w.OnHold, &w.Locked, &w.DepositedTotal, &w.SettledTotal)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        SELECT ` + walletColumns + `
        FROM wallets
        WHERE user_id = $1
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (r *Repository) Create(ctx context.Context, userID int, currency string) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (user_id, currency)
        VALUES ($1, $2)
        RETURNING ` + walletColumns + `
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID, currency))
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// Credit adds deposited funds to the available bucket.
func (r *Repository) Credit(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET available = available + $1, deposited_total = deposited_total + $1
        WHERE user_id = $2
        RETURNING ` + walletColumns + `
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, amount, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to credit wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// Reserve moves funds from available to on_hold. The conditional
// predicate closes the check-then-act race: two concurrent reserves can
// never both succeed against the same funds. Returns nil when the
// wallet lacks available funds.
func (r *Repository) Reserve(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET available = available - $1, on_hold = on_hold + $1
        WHERE user_id = $2 AND available >= $1
        RETURNING ` + walletColumns + `
    `
	return r.move(ctx, query, amount, userID)
}

// Release returns on_hold funds to available.
func (r *Repository) Release(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET on_hold = on_hold - $1, available = available + $1
        WHERE user_id = $2 AND on_hold >= $1
        RETURNING ` + walletColumns + `
    `
	return r.move(ctx, query, amount, userID)
}

// Promote moves on_hold funds to locked.
func (r *Repository) Promote(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET on_hold = on_hold - $1, locked = locked + $1
        WHERE user_id = $2 AND on_hold >= $1
        RETURNING ` + walletColumns + `
    `
	return r.move(ctx, query, amount, userID)
}

// Demote moves locked funds back to on_hold.
func (r *Repository) Demote(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET locked = locked - $1, on_hold = on_hold + $1
        WHERE user_id = $2 AND locked >= $1
        RETURNING ` + walletColumns + `
    `
	return r.move(ctx, query, amount, userID)
}

// Charge removes locked funds against the settlement record.
func (r *Repository) Charge(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET locked = locked - $1, settled_total = settled_total + $1
        WHERE user_id = $2 AND locked >= $1
        RETURNING ` + walletColumns + `
    `
	return r.move(ctx, query, amount, userID)
}

// Refund returns locked funds to available.
func (r *Repository) Refund(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET locked = locked - $1, available = available + $1
        WHERE user_id = $2 AND locked >= $1
        RETURNING ` + walletColumns + `
    `
	return r.move(ctx, query, amount, userID)
}

func (r *Repository) move(ctx context.Context, query string, amount int64, userID int) (*domain.Wallet, error) {
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, amount, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to move wallet funds", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}
