package settlementservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/events"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"github.com/GlebRadaev/bidcore/internal/service/auctionservice"
	"github.com/GlebRadaev/bidcore/internal/service/ledgerservice"
	"go.uber.org/zap"
)

//go:generate mockgen -source=settlementservice.go -destination=settlementservice_mock.go -package=settlementservice

var ErrAuctionNotEnded = errors.New("auction has not ended")

type AuctionRepo interface {
	GetByIDForUpdate(ctx context.Context, auctionID int) (*domain.Auction, error)
	TransitionState(ctx context.Context, auctionID int, from, to domain.AuctionState) (*domain.Auction, error)
}

type BidRepo interface {
	GetLeader(ctx context.Context, auctionID int) (*domain.Bid, error)
}

type Ledger interface {
	Settle(ctx context.Context, holdID int64, mode ledgerservice.SettleMode) error
	MarkCharged(ctx context.Context, holdID int64) error
	MarkChargeFailed(ctx context.Context, holdID int64) error
	GetHoldByBid(ctx context.Context, bidID int64) (*domain.Hold, error)
	FindLiveHoldsByAuction(ctx context.Context, auctionID int) ([]domain.Hold, error)
	Release(ctx context.Context, holdID int64) error
	Demote(ctx context.Context, holdID int64) error
}

type Gateway interface {
	Charge(idempotencyKey string, userID int, amountMinor int64, currency string) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Service finalizes ended auctions: the winner's locked hold becomes a
// charge, every other live hold is released, and the auction moves to
// settled. Settlement is idempotent; re-running it on a settled
// auction is a no-op.
type Service struct {
	auctionRepo AuctionRepo
	bidRepo     BidRepo
	ledger      Ledger
	gateway     Gateway
	publisher   Publisher
	txManager   pg.TXManager
}

func New(
	auctionRepo AuctionRepo,
	bidRepo BidRepo,
	ledger Ledger,
	gateway Gateway,
	publisher Publisher,
	txManager pg.TXManager,
) *Service {
	return &Service{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		ledger:      ledger,
		gateway:     gateway,
		publisher:   publisher,
		txManager:   txManager,
	}
}

type pendingCharge struct {
	holdID      int64
	userID      int
	bidID       int64
	amountMinor int64
	currency    string
	auctionID   int
}

// SettleAuction disposes of an ended auction's funds. The gateway
// capture happens after the transaction commits; the ledger is already
// terminal (charge_pending) by then, so gateway failure is recorded,
// never retried inside the transaction.
func (s *Service) SettleAuction(ctx context.Context, auctionID int) error {
	var charge *pendingCharge
	var settled bool

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		auction, err := s.auctionRepo.GetByIDForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction == nil {
			return auctionservice.ErrAuctionNotFound
		}

		switch auction.State {
		case domain.AuctionSettled:
			return nil
		case domain.AuctionEnded:
		default:
			return ErrAuctionNotEnded
		}

		winner, err := s.bidRepo.GetLeader(ctx, auctionID)
		if err != nil {
			return err
		}

		if winner != nil {
			winnerHold, err := s.ledger.GetHoldByBid(ctx, winner.ID)
			if err != nil {
				return err
			}
			if winnerHold != nil {
				switch winnerHold.Status {
				case domain.HoldLocked:
					if err := s.ledger.Settle(ctx, winnerHold.ID, ledgerservice.SettleCharge); err != nil {
						return err
					}
					fallthrough
				case domain.HoldChargePending:
					// Retry after partial failure: the capture may
					// still be outstanding.
					charge = &pendingCharge{
						holdID:      winnerHold.ID,
						userID:      winner.UserID,
						bidID:       winner.ID,
						amountMinor: winner.AmountMinor,
						currency:    auction.Currency,
						auctionID:   auctionID,
					}
				}
			}
		}

		// By the placement invariant no superseded bid should still
		// hold funds; checked defensively anyway.
		if err := s.releaseStrays(ctx, auctionID, winner); err != nil {
			return err
		}

		updated, err := s.auctionRepo.TransitionState(ctx, auctionID, domain.AuctionEnded, domain.AuctionSettled)
		if err != nil {
			return err
		}
		if updated == nil {
			return auctionservice.ErrInvalidTransition
		}
		settled = true
		return nil
	})
	if err != nil {
		return err
	}

	if charge != nil {
		s.capture(ctx, charge)
	}

	if settled {
		if s.publisher != nil {
			event := events.Event{Type: events.TypeAuctionSettled, AuctionID: auctionID}
			if charge != nil {
				event.BidID = charge.bidID
				event.UserID = charge.userID
				event.AmountMinor = charge.amountMinor
			}
			s.publisher.Publish(ctx, event)
		}
		zap.L().Info("auction settled", zap.Int("auctionID", auctionID))
	}
	return nil
}

func (s *Service) releaseStrays(ctx context.Context, auctionID int, winner *domain.Bid) error {
	holds, err := s.ledger.FindLiveHoldsByAuction(ctx, auctionID)
	if err != nil {
		return err
	}
	for _, hold := range holds {
		if winner != nil && hold.BidID != nil && *hold.BidID == winner.ID {
			continue
		}
		zap.L().Warn("releasing stray live hold at settlement",
			zap.Int("auctionID", auctionID), zap.Int64("holdID", hold.ID))
		if hold.Status == domain.HoldLocked {
			if err := s.ledger.Demote(ctx, hold.ID); err != nil {
				return err
			}
		}
		if err := s.ledger.Release(ctx, hold.ID); err != nil {
			return err
		}
	}
	return nil
}

// capture realizes the charge through the payment gateway. The
// idempotency key pins retries to one capture per winning bid.
func (s *Service) capture(ctx context.Context, charge *pendingCharge) {
	key := fmt.Sprintf("auction:%d:bid:%d", charge.auctionID, charge.bidID)

	if err := s.gateway.Charge(key, charge.userID, charge.amountMinor, charge.currency); err != nil {
		zap.L().Error("gateway capture failed", zap.String("key", key), zap.Error(err))
		if err := s.ledger.MarkChargeFailed(ctx, charge.holdID); err != nil && !errors.Is(err, ledgerservice.ErrHoldNotFound) {
			zap.L().Error("failed to record charge failure", zap.Int64("holdID", charge.holdID), zap.Error(err))
		}
		return
	}
	if err := s.ledger.MarkCharged(ctx, charge.holdID); err != nil && !errors.Is(err, ledgerservice.ErrHoldNotFound) {
		zap.L().Error("failed to record charge success", zap.Int64("holdID", charge.holdID), zap.Error(err))
	}
}
