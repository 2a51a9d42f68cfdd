package bidservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/events"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"github.com/GlebRadaev/bidcore/internal/service/auctionservice"
	"github.com/GlebRadaev/bidcore/pkg/locker"
	"go.uber.org/zap"
)

//go:generate mockgen -source=bidservice.go -destination=bidservice_mock.go -package=bidservice

var (
	ErrNotVerified    = errors.New("user is not verified")
	ErrAuctionNotOpen = errors.New("auction is not open for bidding")
	ErrBidTooLow      = errors.New("bid amount is below the minimum acceptable")
	ErrBusy           = errors.New("auction is busy, retry later")
)

type AuctionRepo interface {
	GetByIDForUpdate(ctx context.Context, auctionID int) (*domain.Auction, error)
	SetCurrentBid(ctx context.Context, auctionID int, bidID int64) error
}

type BidRepo interface {
	Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error)
	GetLeader(ctx context.Context, auctionID int) (*domain.Bid, error)
	MarkSuperseded(ctx context.Context, bidID int64, at time.Time) (*domain.Bid, error)
}

type Ledger interface {
	Reserve(ctx context.Context, userID int, bidID *int64, amount int64, requestKey string) (*domain.Hold, error)
	Release(ctx context.Context, holdID int64) error
	Promote(ctx context.Context, holdID int64) error
	Demote(ctx context.Context, holdID int64) error
	GetHoldByBid(ctx context.Context, bidID int64) (*domain.Hold, error)
}

type Verifier interface {
	CanBid(ctx context.Context, userID int) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Service is the bid placement engine. PlaceBid runs as one atomic
// unit per auction: a keyed lock bounds waiting, the enclosing
// transaction plus the auction row lock make the five sub-steps
// all-or-nothing.
type Service struct {
	auctionRepo AuctionRepo
	bidRepo     BidRepo
	ledger      Ledger
	verifier    Verifier
	publisher   Publisher
	txManager   pg.TXManager
	locks       *locker.KeyedLocker
	lockTimeout time.Duration
}

func New(
	auctionRepo AuctionRepo,
	bidRepo BidRepo,
	ledger Ledger,
	verifier Verifier,
	publisher Publisher,
	txManager pg.TXManager,
	lockTimeout time.Duration,
) *Service {
	return &Service{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		ledger:      ledger,
		verifier:    verifier,
		publisher:   publisher,
		txManager:   txManager,
		locks:       locker.New(),
		lockTimeout: lockTimeout,
	}
}

// PlaceBid validates and applies a bid. requestID keys the fund
// reservation, so a retried request can never reserve twice.
func (s *Service) PlaceBid(ctx context.Context, userID, auctionID int, amountMinor int64, requestID string) (*domain.Bid, error) {
	if amountMinor <= 0 {
		return nil, ErrBidTooLow
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	verified, err := s.verifier.CanBid(ctx, userID)
	if err != nil {
		zap.L().Error("verification check failed", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	if !verified {
		return nil, ErrNotVerified
	}

	release, err := s.locks.Acquire(ctx, auctionID, s.lockTimeout)
	if err != nil {
		if errors.Is(err, locker.ErrLockTimeout) {
			return nil, ErrBusy
		}
		return nil, err
	}
	defer release()

	var bid *domain.Bid
	var displaced *domain.Bid

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		auction, err := s.auctionRepo.GetByIDForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction == nil {
			return auctionservice.ErrAuctionNotFound
		}

		now := time.Now()
		if auction.State != domain.AuctionLive {
			return ErrAuctionNotOpen
		}
		if auction.StartAt == nil || auction.EndAt == nil || now.Before(*auction.StartAt) || !now.Before(*auction.EndAt) {
			return ErrAuctionNotOpen
		}

		leader, err := s.bidRepo.GetLeader(ctx, auctionID)
		if err != nil {
			return err
		}
		if amountMinor < auctionservice.MinAcceptable(auction, leader) {
			return ErrBidTooLow
		}

		// The displaced leader must lose its unsuperseded mark before
		// the new bid row exists: at most one live bid per auction.
		if leader != nil {
			displaced, err = s.bidRepo.MarkSuperseded(ctx, leader.ID, now)
			if err != nil {
				return err
			}
			if displaced == nil {
				return ErrBidTooLow
			}
		}

		bid, err = s.bidRepo.Create(ctx, &domain.Bid{
			AuctionID:   auctionID,
			UserID:      userID,
			AmountMinor: amountMinor,
		})
		if err != nil {
			return err
		}

		hold, err := s.ledger.Reserve(ctx, userID, &bid.ID, amountMinor, requestID)
		if err != nil {
			return err
		}

		if displaced != nil {
			prevHold, err := s.ledger.GetHoldByBid(ctx, displaced.ID)
			if err != nil {
				return err
			}
			if prevHold != nil && prevHold.Live() {
				if prevHold.Status == domain.HoldLocked {
					if err := s.ledger.Demote(ctx, prevHold.ID); err != nil {
						return err
					}
				}
				if err := s.ledger.Release(ctx, prevHold.ID); err != nil {
					return err
				}
			}
		}

		if err := s.ledger.Promote(ctx, hold.ID); err != nil {
			return err
		}

		return s.auctionRepo.SetCurrentBid(ctx, auctionID, bid.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, bid, displaced)

	zap.L().Info("bid accepted",
		zap.Int("auctionID", auctionID), zap.Int("userID", userID), zap.Int64("amount", amountMinor))
	return bid, nil
}

func (s *Service) notify(ctx context.Context, bid, displaced *domain.Bid) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Type:        events.TypeBidAccepted,
		AuctionID:   bid.AuctionID,
		BidID:       bid.ID,
		UserID:      bid.UserID,
		AmountMinor: bid.AmountMinor,
	})
	if displaced != nil && displaced.UserID != bid.UserID {
		s.publisher.Publish(ctx, events.Event{
			Type:        events.TypeBidOutbid,
			AuctionID:   displaced.AuctionID,
			BidID:       displaced.ID,
			UserID:      displaced.UserID,
			AmountMinor: displaced.AmountMinor,
		})
	}
}
