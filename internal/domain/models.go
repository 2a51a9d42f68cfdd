package domain

import "time"

type VerificationState string

const (
	VerificationUnverified VerificationState = "unverified"
	VerificationPending    VerificationState = "pending"
	VerificationVerified   VerificationState = "verified"
	VerificationRejected   VerificationState = "rejected"
)

type AuctionState string

const (
	AuctionDraft     AuctionState = "draft"
	AuctionScheduled AuctionState = "scheduled"
	AuctionLive      AuctionState = "live"
	AuctionEnded     AuctionState = "ended"
	AuctionSettled   AuctionState = "settled"
)

type HoldStatus string

const (
	HoldOnHold        HoldStatus = "on_hold"
	HoldLocked        HoldStatus = "locked"
	HoldChargePending HoldStatus = "charge_pending"
	HoldCharged       HoldStatus = "charged"
	HoldChargeFailed  HoldStatus = "charge_failed"
	HoldReleased      HoldStatus = "released"
)

// Ledger event types, one per bucket move. The event log is append-only;
// the wallet buckets are a recomputable projection of it.
const (
	EventDeposit = "deposit"
	EventReserve = "reserve"
	EventRelease = "release"
	EventPromote = "promote"
	EventDemote  = "demote"
	EventCharge  = "charge"
	EventRefund  = "refund"
)

type User struct {
	ID                int               `db:"id"`
	Login             string            `db:"login"`
	PasswordHash      string            `db:"password_hash"`
	VerificationState VerificationState `db:"verification_state"`
	CreatedAt         time.Time         `db:"created_at"`
}

type Wallet struct {
	ID             int    `db:"id"`
	UserID         int    `db:"user_id"`
	Currency       string `db:"currency"`
	Available      int64  `db:"available"`
	OnHold         int64  `db:"on_hold"`
	Locked         int64  `db:"locked"`
	DepositedTotal int64  `db:"deposited_total"`
	SettledTotal   int64  `db:"settled_total"`
}

type Auction struct {
	ID            int          `db:"id"`
	ProductID     int          `db:"product_id"`
	State         AuctionState `db:"state"`
	StartingPrice int64        `db:"starting_price"`
	MinIncrement  int64        `db:"min_increment"`
	Currency      string       `db:"currency"`
	CurrentBidID  *int64       `db:"current_bid_id"`
	StartAt       *time.Time   `db:"start_at"`
	EndAt         *time.Time   `db:"end_at"`
	CreatedAt     time.Time    `db:"created_at"`
}

type Bid struct {
	ID           int64      `db:"id"`
	AuctionID    int        `db:"auction_id"`
	UserID       int        `db:"user_id"`
	AmountMinor  int64      `db:"amount_minor"`
	PlacedAt     time.Time  `db:"placed_at"`
	SupersededAt *time.Time `db:"superseded_at"`
}

type Hold struct {
	ID         int64      `db:"id"`
	UserID     int        `db:"user_id"`
	BidID      *int64     `db:"bid_id"`
	Amount     int64      `db:"amount"`
	Status     HoldStatus `db:"status"`
	RequestKey string     `db:"request_key"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// Live reports whether the hold still pins funds in a wallet bucket.
func (h *Hold) Live() bool {
	return h.Status == HoldOnHold || h.Status == HoldLocked
}

type LedgerEvent struct {
	ID              int64     `db:"id"`
	UserID          int       `db:"user_id"`
	HoldID          *int64    `db:"hold_id"`
	BidID           *int64    `db:"bid_id"`
	EventType       string    `db:"event_type"`
	Amount          int64     `db:"amount"`
	AvailableBefore int64     `db:"available_before"`
	AvailableAfter  int64     `db:"available_after"`
	OnHoldBefore    int64     `db:"on_hold_before"`
	OnHoldAfter     int64     `db:"on_hold_after"`
	LockedBefore    int64     `db:"locked_before"`
	LockedAfter     int64     `db:"locked_after"`
	CreatedAt       time.Time `db:"created_at"`
}
