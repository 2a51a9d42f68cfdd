package settlementservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/events"
	"github.com/GlebRadaev/bidcore/internal/pg"
	"github.com/GlebRadaev/bidcore/internal/service/auctionservice"
	"github.com/GlebRadaev/bidcore/internal/service/ledgerservice"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type settlementMocks struct {
	auctionRepo *MockAuctionRepo
	bidRepo     *MockBidRepo
	ledger      *MockLedger
	gateway     *MockGateway
	publisher   *MockPublisher
}

func NewMock(t *testing.T) (*Service, *settlementMocks) {
	ctrl := gomock.NewController(t)
	m := &settlementMocks{
		auctionRepo: NewMockAuctionRepo(ctrl),
		bidRepo:     NewMockBidRepo(ctrl),
		ledger:      NewMockLedger(ctrl),
		gateway:     NewMockGateway(ctrl),
		publisher:   NewMockPublisher(ctrl),
	}
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	service := New(m.auctionRepo, m.bidRepo, m.ledger, m.gateway, m.publisher, txManager)
	defer ctrl.Finish()
	return service, m
}

func endedAuction(id int) *domain.Auction {
	return &domain.Auction{
		ID:       id,
		State:    domain.AuctionEnded,
		Currency: "USD",
	}
}

func TestSettleAuction(t *testing.T) {
	service, m := NewMock(t)
	winnerBidID := int64(6)
	winnerHoldID := int64(11)

	tests := []struct {
		name          string
		auctionID     int
		prepareMock   func()
		expectedError error
	}{
		{
			name:      "Auction not found",
			auctionID: 99,
			prepareMock: func() {
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 99).Return(nil, nil)
			},
			expectedError: auctionservice.ErrAuctionNotFound,
		},
		{
			name:      "Already settled is a no-op",
			auctionID: 1,
			prepareMock: func() {
				auction := endedAuction(1)
				auction.State = domain.AuctionSettled
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(auction, nil)
			},
			expectedError: nil,
		},
		{
			name:      "Live auction cannot settle",
			auctionID: 1,
			prepareMock: func() {
				auction := endedAuction(1)
				auction.State = domain.AuctionLive
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(auction, nil)
			},
			expectedError: ErrAuctionNotEnded,
		},
		{
			name:      "No bids settles without a charge",
			auctionID: 1,
			prepareMock: func() {
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(endedAuction(1), nil)
				m.bidRepo.EXPECT().GetLeader(gomock.Any(), 1).Return(nil, nil)
				m.ledger.EXPECT().FindLiveHoldsByAuction(gomock.Any(), 1).Return(nil, nil)
				m.auctionRepo.EXPECT().TransitionState(gomock.Any(), 1, domain.AuctionEnded, domain.AuctionSettled).
					Return(&domain.Auction{ID: 1, State: domain.AuctionSettled}, nil)
				m.publisher.EXPECT().Publish(gomock.Any(), events.Event{
					Type:      events.TypeAuctionSettled,
					AuctionID: 1,
				})
			},
			expectedError: nil,
		},
		{
			name:      "Winner charged and captured",
			auctionID: 1,
			prepareMock: func() {
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(endedAuction(1), nil)
				m.bidRepo.EXPECT().GetLeader(gomock.Any(), 1).Return(&domain.Bid{
					ID: winnerBidID, AuctionID: 1, UserID: 2, AmountMinor: 1600,
				}, nil)
				m.ledger.EXPECT().GetHoldByBid(gomock.Any(), winnerBidID).Return(&domain.Hold{
					ID: winnerHoldID, UserID: 2, BidID: &winnerBidID, Amount: 1600, Status: domain.HoldLocked,
				}, nil)
				m.ledger.EXPECT().Settle(gomock.Any(), winnerHoldID, ledgerservice.SettleCharge).Return(nil)
				m.ledger.EXPECT().FindLiveHoldsByAuction(gomock.Any(), 1).Return(nil, nil)
				m.auctionRepo.EXPECT().TransitionState(gomock.Any(), 1, domain.AuctionEnded, domain.AuctionSettled).
					Return(&domain.Auction{ID: 1, State: domain.AuctionSettled}, nil)
				m.gateway.EXPECT().Charge("auction:1:bid:6", 2, int64(1600), "USD").Return(nil)
				m.ledger.EXPECT().MarkCharged(gomock.Any(), winnerHoldID).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), events.Event{
					Type:        events.TypeAuctionSettled,
					AuctionID:   1,
					BidID:       winnerBidID,
					UserID:      2,
					AmountMinor: 1600,
				})
			},
			expectedError: nil,
		},
		{
			name:      "Gateway failure is recorded, settlement still succeeds",
			auctionID: 1,
			prepareMock: func() {
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(endedAuction(1), nil)
				m.bidRepo.EXPECT().GetLeader(gomock.Any(), 1).Return(&domain.Bid{
					ID: winnerBidID, AuctionID: 1, UserID: 2, AmountMinor: 1600,
				}, nil)
				m.ledger.EXPECT().GetHoldByBid(gomock.Any(), winnerBidID).Return(&domain.Hold{
					ID: winnerHoldID, UserID: 2, BidID: &winnerBidID, Amount: 1600, Status: domain.HoldLocked,
				}, nil)
				m.ledger.EXPECT().Settle(gomock.Any(), winnerHoldID, ledgerservice.SettleCharge).Return(nil)
				m.ledger.EXPECT().FindLiveHoldsByAuction(gomock.Any(), 1).Return(nil, nil)
				m.auctionRepo.EXPECT().TransitionState(gomock.Any(), 1, domain.AuctionEnded, domain.AuctionSettled).
					Return(&domain.Auction{ID: 1, State: domain.AuctionSettled}, nil)
				m.gateway.EXPECT().Charge("auction:1:bid:6", 2, int64(1600), "USD").Return(errors.New("gateway down"))
				m.ledger.EXPECT().MarkChargeFailed(gomock.Any(), winnerHoldID).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
			expectedError: nil,
		},
		{
			name:      "Retry after partial failure re-captures a charge_pending hold",
			auctionID: 1,
			prepareMock: func() {
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(endedAuction(1), nil)
				m.bidRepo.EXPECT().GetLeader(gomock.Any(), 1).Return(&domain.Bid{
					ID: winnerBidID, AuctionID: 1, UserID: 2, AmountMinor: 1600,
				}, nil)
				m.ledger.EXPECT().GetHoldByBid(gomock.Any(), winnerBidID).Return(&domain.Hold{
					ID: winnerHoldID, UserID: 2, BidID: &winnerBidID, Amount: 1600, Status: domain.HoldChargePending,
				}, nil)
				m.ledger.EXPECT().FindLiveHoldsByAuction(gomock.Any(), 1).Return(nil, nil)
				m.auctionRepo.EXPECT().TransitionState(gomock.Any(), 1, domain.AuctionEnded, domain.AuctionSettled).
					Return(&domain.Auction{ID: 1, State: domain.AuctionSettled}, nil)
				m.gateway.EXPECT().Charge("auction:1:bid:6", 2, int64(1600), "USD").Return(nil)
				m.ledger.EXPECT().MarkCharged(gomock.Any(), winnerHoldID).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
			expectedError: nil,
		},
		{
			name:      "Stray live holds are released before settling",
			auctionID: 1,
			prepareMock: func() {
				strayBidID := int64(5)
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(endedAuction(1), nil)
				m.bidRepo.EXPECT().GetLeader(gomock.Any(), 1).Return(&domain.Bid{
					ID: winnerBidID, AuctionID: 1, UserID: 2, AmountMinor: 1600,
				}, nil)
				m.ledger.EXPECT().GetHoldByBid(gomock.Any(), winnerBidID).Return(&domain.Hold{
					ID: winnerHoldID, UserID: 2, BidID: &winnerBidID, Amount: 1600, Status: domain.HoldLocked,
				}, nil)
				m.ledger.EXPECT().Settle(gomock.Any(), winnerHoldID, ledgerservice.SettleCharge).Return(nil)
				m.ledger.EXPECT().FindLiveHoldsByAuction(gomock.Any(), 1).Return([]domain.Hold{
					{ID: winnerHoldID, UserID: 2, BidID: &winnerBidID, Amount: 1600, Status: domain.HoldLocked},
					{ID: 10, UserID: 3, BidID: &strayBidID, Amount: 1500, Status: domain.HoldLocked},
				}, nil)
				m.ledger.EXPECT().Demote(gomock.Any(), int64(10)).Return(nil)
				m.ledger.EXPECT().Release(gomock.Any(), int64(10)).Return(nil)
				m.auctionRepo.EXPECT().TransitionState(gomock.Any(), 1, domain.AuctionEnded, domain.AuctionSettled).
					Return(&domain.Auction{ID: 1, State: domain.AuctionSettled}, nil)
				m.gateway.EXPECT().Charge("auction:1:bid:6", 2, int64(1600), "USD").Return(nil)
				m.ledger.EXPECT().MarkCharged(gomock.Any(), winnerHoldID).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
			expectedError: nil,
		},
		{
			name:      "Ledger error aborts settlement before transition",
			auctionID: 1,
			prepareMock: func() {
				m.auctionRepo.EXPECT().GetByIDForUpdate(gomock.Any(), 1).Return(endedAuction(1), nil)
				m.bidRepo.EXPECT().GetLeader(gomock.Any(), 1).Return(&domain.Bid{
					ID: winnerBidID, AuctionID: 1, UserID: 2, AmountMinor: 1600,
				}, nil)
				m.ledger.EXPECT().GetHoldByBid(gomock.Any(), winnerBidID).Return(&domain.Hold{
					ID: winnerHoldID, UserID: 2, BidID: &winnerBidID, Amount: 1600, Status: domain.HoldLocked,
				}, nil)
				m.ledger.EXPECT().Settle(gomock.Any(), winnerHoldID, ledgerservice.SettleCharge).
					Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			err := service.SettleAuction(context.Background(), tt.auctionID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
