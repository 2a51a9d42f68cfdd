package sweeper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/GlebRadaev/bidcore/internal/config"
	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/service/auctionservice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=sweeper.go -destination=sweeper_mock.go -package=sweeper

var processingAuctions sync.Map

type AuctionService interface {
	FindDueToStart(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error)
	FindOverdue(ctx context.Context, now time.Time, limit uint32) ([]domain.Auction, error)
	Start(ctx context.Context, auctionID int) (*domain.Auction, error)
	End(ctx context.Context, auctionID int) (*domain.Auction, error)
}

type Settler interface {
	SettleAuction(ctx context.Context, auctionID int) error
}

// Service is the clock-driven side of the auction state machine: it
// opens scheduled auctions whose window started and force-ends and
// settles live auctions whose window passed. Each auction is processed
// independently; one slow settlement never blocks the rest of a sweep.
type Service struct {
	auctions      AuctionService
	settler       Settler
	limit         uint32
	workerPool    WorkerPoolI
	sweepInterval time.Duration
}

func New(cfg *config.Config, auctions AuctionService, settler Settler) *Service {
	return &Service{
		auctions:      auctions,
		settler:       settler,
		limit:         1000,
		workerPool:    NewWorkerPool(10),
		sweepInterval: cfg.SweepInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Auction sweeper started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	now := time.Now()
	s.startDue(ctx, now)
	s.endOverdue(ctx, now)
}

func (s *Service) startDue(ctx context.Context, now time.Time) {
	due, err := s.auctions.FindDueToStart(ctx, now, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch auctions due to start", zap.Error(err))
		return
	}

	for _, auction := range due {
		if _, err := s.auctions.Start(ctx, auction.ID); err != nil {
			// A concurrent sweep may have opened it already.
			if errors.Is(err, auctionservice.ErrInvalidTransition) {
				continue
			}
			zap.L().Error("Failed to start auction", zap.Int("auctionID", auction.ID), zap.Error(err))
		}
	}
}

func (s *Service) endOverdue(ctx context.Context, now time.Time) {
	overdue, err := s.auctions.FindOverdue(ctx, now, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch overdue auctions", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, auction := range overdue {
		auction := auction

		if _, loaded := processingAuctions.LoadOrStore(auction.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingAuctions.Delete(auction.ID)
				return s.handleAuction(ctx, auction)
			})
			if err != nil {
				processingAuctions.Delete(auction.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error processing overdue auctions", zap.Error(err))
	}
}

func (s *Service) handleAuction(ctx context.Context, auction domain.Auction) error {
	if _, err := s.auctions.End(ctx, auction.ID); err != nil {
		// Already ended by another worker or a force-end; settlement
		// below still applies.
		if !errors.Is(err, auctionservice.ErrInvalidTransition) {
			return err
		}
	}
	return s.settler.SettleAuction(ctx, auction.ID)
}
