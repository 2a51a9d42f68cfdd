package dto

import "time"

type CreateAuctionRequestDTO struct {
	ProductID     int    `json:"product_id" example:"42"`
	StartingPrice int64  `json:"starting_price" example:"50000"`
	MinIncrement  int64  `json:"min_increment" example:"5000"`
	Currency      string `json:"currency" example:"USD"`
}

type PublishAuctionRequestDTO struct {
	StartAt time.Time `json:"start_at" example:"2020-12-09T16:09:57+03:00"`
	EndAt   time.Time `json:"end_at" example:"2020-12-10T16:09:57+03:00"`
}

type AuctionResponseDTO struct {
	ID            int        `json:"id" example:"1"`
	ProductID     int        `json:"product_id" example:"42"`
	State         string     `json:"state" example:"live"`
	StartingPrice int64      `json:"starting_price" example:"50000"`
	MinIncrement  int64      `json:"min_increment" example:"5000"`
	Currency      string     `json:"currency" example:"USD"`
	CurrentBid    *BidDTO    `json:"current_bid,omitempty"`
	MinAcceptable int64      `json:"min_acceptable" example:"55000"`
	StartAt       *time.Time `json:"start_at,omitempty"`
	EndAt         *time.Time `json:"end_at,omitempty"`
}

type BidDTO struct {
	ID          int64     `json:"id" example:"7"`
	AuctionID   int       `json:"auction_id" example:"1"`
	AmountMinor int64     `json:"amount" example:"60000"`
	PlacedAt    time.Time `json:"placed_at" example:"2020-12-09T16:09:57+03:00"`
}

type PlaceBidRequestDTO struct {
	Amount    int64  `json:"amount" example:"60000"`
	RequestID string `json:"request_id,omitempty" example:"e0b4c1de-9f25-4f0b-8f0e-1c2d3e4f5a6b"`
}
