package auctionservice

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"go.uber.org/zap"
)

//go:generate mockgen -source=auctionservice.go -destination=auctionservice_mock.go -package=auctionservice

var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrInvalidTransition = errors.New("invalid auction state transition")
	ErrInvalidSchedule   = errors.New("invalid auction schedule")
	ErrInvalidAuction    = errors.New("invalid auction parameters")
)

type AuctionRepo interface {
	Create(ctx context.Context, auction *domain.Auction) (*domain.Auction, error)
	GetByID(ctx context.Context, auctionID int) (*domain.Auction, error)
	TransitionState(ctx context.Context, auctionID int, from, to domain.AuctionState) (*domain.Auction, error)
	Schedule(ctx context.Context, auctionID int, startAt, endAt time.Time) (*domain.Auction, error)
	FindDueToStart(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error)
	FindOverdue(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error)
}

type BidRepo interface {
	GetLeader(ctx context.Context, auctionID int) (*domain.Bid, error)
}

// Service owns the auction lifecycle:
// draft -> scheduled -> live -> ended -> settled, forward only.
// Transitions are guarded UPDATEs, so concurrent attempts resolve to
// exactly one winner.
type Service struct {
	auctionRepo AuctionRepo
	bidRepo     BidRepo
}

func New(auctionRepo AuctionRepo, bidRepo BidRepo) *Service {
	return &Service{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
	}
}

func (s *Service) Create(ctx context.Context, productID int, startingPrice, minIncrement int64, currency string) (*domain.Auction, error) {
	if productID <= 0 || startingPrice <= 0 || minIncrement <= 0 {
		return nil, ErrInvalidAuction
	}
	if currency == "" {
		currency = "USD"
	}
	auction, err := s.auctionRepo.Create(ctx, &domain.Auction{
		ProductID:     productID,
		StartingPrice: startingPrice,
		MinIncrement:  minIncrement,
		Currency:      currency,
	})
	if err != nil {
		zap.L().Error("failed to create auction", zap.Error(err))
		return nil, err
	}
	return auction, nil
}

// Publish moves a draft auction to scheduled with its bidding window.
func (s *Service) Publish(ctx context.Context, auctionID int, startAt, endAt time.Time) (*domain.Auction, error) {
	if !endAt.After(startAt) || endAt.Before(time.Now()) {
		return nil, ErrInvalidSchedule
	}

	auction, err := s.auctionRepo.Schedule(ctx, auctionID, startAt, endAt)
	if err != nil {
		return nil, err
	}
	if auction == nil {
		existing, err := s.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrAuctionNotFound
		}
		return nil, ErrInvalidTransition
	}

	zap.L().Info("auction published", zap.Int("auctionID", auctionID), zap.Time("startAt", startAt), zap.Time("endAt", endAt))
	return auction, nil
}

// Start moves a scheduled auction live once the clock crosses startAt.
func (s *Service) Start(ctx context.Context, auctionID int) (*domain.Auction, error) {
	return s.transition(ctx, auctionID, domain.AuctionScheduled, domain.AuctionLive)
}

// End closes a live auction, either because the clock crossed endAt or
// because an admin force-ends it.
func (s *Service) End(ctx context.Context, auctionID int) (*domain.Auction, error) {
	return s.transition(ctx, auctionID, domain.AuctionLive, domain.AuctionEnded)
}

func (s *Service) transition(ctx context.Context, auctionID int, from, to domain.AuctionState) (*domain.Auction, error) {
	auction, err := s.auctionRepo.TransitionState(ctx, auctionID, from, to)
	if err != nil {
		return nil, err
	}
	if auction == nil {
		existing, err := s.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrAuctionNotFound
		}
		return nil, ErrInvalidTransition
	}
	zap.L().Info("auction state changed", zap.Int("auctionID", auctionID), zap.String("state", string(to)))
	return auction, nil
}

// GetState returns the auction with its current leader bid and the
// minimum acceptable next amount. The server is authoritative for the
// minimum; client preset amounts are display-only.
func (s *Service) GetState(ctx context.Context, auctionID int) (*domain.Auction, *domain.Bid, int64, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, nil, 0, err
	}
	if auction == nil {
		return nil, nil, 0, ErrAuctionNotFound
	}

	leader, err := s.bidRepo.GetLeader(ctx, auctionID)
	if err != nil {
		return nil, nil, 0, err
	}

	return auction, leader, MinAcceptable(auction, leader), nil
}

// MinAcceptable computes the lowest amount the next bid may carry: the
// starting price with no leader, otherwise leader + minIncrement.
func MinAcceptable(auction *domain.Auction, leader *domain.Bid) int64 {
	if leader == nil {
		return auction.StartingPrice
	}
	return leader.AmountMinor + auction.MinIncrement
}

func (s *Service) FindDueToStart(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error) {
	return s.auctionRepo.FindDueToStart(ctx, now, limit)
}

func (s *Service) FindOverdue(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error) {
	return s.auctionRepo.FindOverdue(ctx, now, limit)
}
