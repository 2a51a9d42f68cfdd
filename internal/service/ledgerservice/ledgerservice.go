package ledgerservice

import (
	"context"
	"errors"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=ledgerservice.go -destination=ledgerservice_mock.go -package=ledgerservice

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrHoldNotFound      = errors.New("hold not found or already settled")
	ErrWalletNotFound    = errors.New("wallet not found")
)

type SettleMode string

const (
	SettleCharge SettleMode = "charge"
	SettleRefund SettleMode = "refund"
)

type WalletRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
	Create(ctx context.Context, userID int, currency string) (*domain.Wallet, error)
	Credit(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	Reserve(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	Release(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	Promote(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	Demote(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	Charge(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	Refund(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
}

type LedgerRepo interface {
	CreateHold(ctx context.Context, hold *domain.Hold) (*domain.Hold, error)
	GetHoldByID(ctx context.Context, holdID int64) (*domain.Hold, error)
	GetHoldByRequestKey(ctx context.Context, requestKey string) (*domain.Hold, error)
	GetHoldByBidID(ctx context.Context, bidID int64) (*domain.Hold, error)
	UpdateHoldStatus(ctx context.Context, holdID int64, from, to domain.HoldStatus) (*domain.Hold, error)
	FindLiveHoldsByAuction(ctx context.Context, auctionID int) ([]domain.Hold, error)
	AppendEvent(ctx context.Context, event *domain.LedgerEvent) error
	GetEventsByUserID(ctx context.Context, userID int) ([]domain.LedgerEvent, error)
}

// Service is the ledger store. Wallet buckets move only through its
// operations; every move appends an event carrying before/after
// balances, so the balances stay a recomputable projection of the log.
type Service struct {
	walletRepo WalletRepo
	ledgerRepo LedgerRepo
	txManager  pg.TXManager
}

func New(walletRepo WalletRepo, ledgerRepo LedgerRepo, txManager pg.TXManager) *Service {
	return &Service{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
	}
}

func (s *Service) CreateWallet(ctx context.Context, userID int, currency string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.Create(ctx, userID, currency)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

func (s *Service) GetEvents(ctx context.Context, userID int) ([]domain.LedgerEvent, error) {
	return s.ledgerRepo.GetEventsByUserID(ctx, userID)
}

func (s *Service) GetHold(ctx context.Context, holdID int64) (*domain.Hold, error) {
	hold, err := s.ledgerRepo.GetHoldByID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if hold == nil {
		return nil, ErrHoldNotFound
	}
	return hold, nil
}

func (s *Service) GetHoldByBid(ctx context.Context, bidID int64) (*domain.Hold, error) {
	return s.ledgerRepo.GetHoldByBidID(ctx, bidID)
}

func (s *Service) FindLiveHoldsByAuction(ctx context.Context, auctionID int) ([]domain.Hold, error) {
	return s.ledgerRepo.FindLiveHoldsByAuction(ctx, auctionID)
}

// Deposit credits confirmed gateway funds to the available bucket.
func (s *Service) Deposit(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		wallet, err = s.walletRepo.Credit(ctx, userID, amount)
		if err != nil {
			return err
		}
		if wallet == nil {
			return ErrWalletNotFound
		}
		return s.ledgerRepo.AppendEvent(ctx, event(wallet, domain.EventDeposit, amount, nil, nil))
	})
	if err != nil {
		zap.L().Error("deposit failed", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// Reserve moves amount from available to on_hold behind a new hold.
// Idempotent by requestKey: replaying a request returns the hold the
// first attempt created, without moving funds again.
func (s *Service) Reserve(ctx context.Context, userID int, bidID *int64, amount int64, requestKey string) (*domain.Hold, error) {
	var hold *domain.Hold
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.ledgerRepo.GetHoldByRequestKey(ctx, requestKey)
		if err != nil {
			return err
		}
		if existing != nil {
			hold = existing
			return nil
		}

		wallet, err := s.walletRepo.Reserve(ctx, userID, amount)
		if err != nil {
			return err
		}
		if wallet == nil {
			if w, err := s.walletRepo.GetByUserID(ctx, userID); err != nil {
				return err
			} else if w == nil {
				return ErrWalletNotFound
			}
			return ErrInsufficientFunds
		}

		hold, err = s.ledgerRepo.CreateHold(ctx, &domain.Hold{
			UserID:     userID,
			BidID:      bidID,
			Amount:     amount,
			Status:     domain.HoldOnHold,
			RequestKey: requestKey,
		})
		if err != nil {
			return err
		}
		return s.ledgerRepo.AppendEvent(ctx, event(wallet, domain.EventReserve, amount, &hold.ID, bidID))
	})
	if err != nil {
		return nil, err
	}
	return hold, nil
}

// Release returns an on_hold hold's funds to available.
func (s *Service) Release(ctx context.Context, holdID int64) error {
	return s.moveHold(ctx, holdID, domain.HoldOnHold, domain.HoldReleased, domain.EventRelease, s.walletRepo.Release)
}

// Promote moves a hold's funds from on_hold to locked (new leader).
func (s *Service) Promote(ctx context.Context, holdID int64) error {
	return s.moveHold(ctx, holdID, domain.HoldOnHold, domain.HoldLocked, domain.EventPromote, s.walletRepo.Promote)
}

// Demote moves a hold's funds from locked back to on_hold (displaced
// leader).
func (s *Service) Demote(ctx context.Context, holdID int64) error {
	return s.moveHold(ctx, holdID, domain.HoldLocked, domain.HoldOnHold, domain.EventDemote, s.walletRepo.Demote)
}

// Settle is terminal. Charge leaves the hold in charge_pending for the
// gateway capture; refund returns locked funds to available.
func (s *Service) Settle(ctx context.Context, holdID int64, mode SettleMode) error {
	if mode == SettleRefund {
		return s.moveHold(ctx, holdID, domain.HoldLocked, domain.HoldReleased, domain.EventRefund, s.walletRepo.Refund)
	}
	return s.moveHold(ctx, holdID, domain.HoldLocked, domain.HoldChargePending, domain.EventCharge, s.walletRepo.Charge)
}

// MarkCharged records a successful gateway capture.
func (s *Service) MarkCharged(ctx context.Context, holdID int64) error {
	return s.markChargeOutcome(ctx, holdID, domain.HoldCharged)
}

// MarkChargeFailed records a failed gateway capture for later retry.
func (s *Service) MarkChargeFailed(ctx context.Context, holdID int64) error {
	return s.markChargeOutcome(ctx, holdID, domain.HoldChargeFailed)
}

func (s *Service) markChargeOutcome(ctx context.Context, holdID int64, to domain.HoldStatus) error {
	hold, err := s.ledgerRepo.UpdateHoldStatus(ctx, holdID, domain.HoldChargePending, to)
	if err != nil {
		return err
	}
	if hold == nil {
		return ErrHoldNotFound
	}
	return nil
}

type walletMove func(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)

func (s *Service) moveHold(ctx context.Context, holdID int64, from, to domain.HoldStatus, eventType string, move walletMove) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		hold, err := s.ledgerRepo.UpdateHoldStatus(ctx, holdID, from, to)
		if err != nil {
			return err
		}
		if hold == nil {
			return ErrHoldNotFound
		}

		wallet, err := move(ctx, hold.UserID, hold.Amount)
		if err != nil {
			return err
		}
		if wallet == nil {
			// Buckets out of step with the hold status would break
			// conservation; abort the transaction.
			zap.L().Error("wallet bucket underflow on hold move",
				zap.Int64("holdID", holdID), zap.String("event", eventType))
			return ErrHoldNotFound
		}
		return s.ledgerRepo.AppendEvent(ctx, event(wallet, eventType, hold.Amount, &hold.ID, hold.BidID))
	})
}

// event reconstructs before balances from the post-move wallet; each
// move changes exactly two buckets by amount.
func event(after *domain.Wallet, eventType string, amount int64, holdID, bidID *int64) *domain.LedgerEvent {
	e := &domain.LedgerEvent{
		UserID:          after.UserID,
		HoldID:          holdID,
		BidID:           bidID,
		EventType:       eventType,
		Amount:          amount,
		AvailableBefore: after.Available,
		AvailableAfter:  after.Available,
		OnHoldBefore:    after.OnHold,
		OnHoldAfter:     after.OnHold,
		LockedBefore:    after.Locked,
		LockedAfter:     after.Locked,
	}
	switch eventType {
	case domain.EventDeposit:
		e.AvailableBefore -= amount
	case domain.EventReserve:
		e.AvailableBefore += amount
		e.OnHoldBefore -= amount
	case domain.EventRelease:
		e.OnHoldBefore += amount
		e.AvailableBefore -= amount
	case domain.EventPromote:
		e.OnHoldBefore += amount
		e.LockedBefore -= amount
	case domain.EventDemote:
		e.LockedBefore += amount
		e.OnHoldBefore -= amount
	case domain.EventCharge:
		e.LockedBefore += amount
	case domain.EventRefund:
		e.LockedBefore += amount
		e.AvailableBefore -= amount
	}
	return e
}
