package auctions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/dto"
	"github.com/GlebRadaev/bidcore/internal/service/auctionservice"
	"github.com/GlebRadaev/bidcore/internal/service/bidservice"
	"github.com/GlebRadaev/bidcore/internal/service/ledgerservice"
	"github.com/GlebRadaev/bidcore/pkg/auth"
	"github.com/GlebRadaev/bidcore/pkg/utils"
)

type AuctionService interface {
	Create(ctx context.Context, productID int, startingPrice, minIncrement int64, currency string) (*domain.Auction, error)
	Publish(ctx context.Context, auctionID int, startAt, endAt time.Time) (*domain.Auction, error)
	GetState(ctx context.Context, auctionID int) (*domain.Auction, *domain.Bid, int64, error)
}

type BidService interface {
	PlaceBid(ctx context.Context, userID, auctionID int, amountMinor int64, requestID string) (*domain.Bid, error)
}

type AuctionHandler struct {
	auctionService AuctionService
	bidService     BidService
}

func New(auctionService AuctionService, bidService BidService) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		bidService:     bidService,
	}
}

func auctionIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "auctionID"))
}

func toResponse(auction *domain.Auction, leader *domain.Bid, minAcceptable int64) dto.AuctionResponseDTO {
	resp := dto.AuctionResponseDTO{
		ID:            auction.ID,
		ProductID:     auction.ProductID,
		State:         string(auction.State),
		StartingPrice: auction.StartingPrice,
		MinIncrement:  auction.MinIncrement,
		Currency:      auction.Currency,
		MinAcceptable: minAcceptable,
		StartAt:       auction.StartAt,
		EndAt:         auction.EndAt,
	}
	if leader != nil {
		resp.CurrentBid = &dto.BidDTO{
			ID:          leader.ID,
			AuctionID:   leader.AuctionID,
			AmountMinor: leader.AmountMinor,
			PlacedAt:    leader.PlacedAt,
		}
	}
	return resp
}

// GetAuction godoc
//
//	@Summary		Get auction state
//	@Description	Retrieve the auction lifecycle state, the current highest bid and the minimum acceptable next amount. The server value is authoritative; client-side minimums are estimates.
//	@Tags			Auctions
//	@Produce		json
//	@Param			auctionID	path		int	true	"Auction ID"
//	@Success		200			{object}	dto.AuctionResponseDTO	"Auction state"
//	@Failure		400			{object}	utils.Response			"Invalid auction id"
//	@Failure		404			{object}	utils.Response			"Auction not found"
//	@Failure		500			{object}	utils.Response			"Internal server error"
//	@Router			/api/auctions/{auctionID} [get]
func (h *AuctionHandler) GetAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDParam(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid auction id")
		return
	}

	auction, leader, minAcceptable, err := h.auctionService.GetState(r.Context(), auctionID)
	if err != nil {
		switch {
		case errors.Is(err, auctionservice.ErrAuctionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(auction, leader, minAcceptable))
}

// CreateAuction godoc
//
//	@Summary		Create auction
//	@Description	Create a draft auction for a product with a starting price and minimum increment in minor units.
//	@Tags			Auctions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateAuctionRequestDTO	true	"Auction parameters"
//	@Success		200		{object}	dto.AuctionResponseDTO		"Created auction"
//	@Failure		400		{object}	utils.Response				"Invalid parameters"
//	@Failure		401		{object}	utils.Response				"User not authorized"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/auctions [post]
func (h *AuctionHandler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAuctionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	auction, err := h.auctionService.Create(r.Context(), req.ProductID, req.StartingPrice, req.MinIncrement, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, auctionservice.ErrInvalidAuction):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(auction, nil, auction.StartingPrice))
}

// PublishAuction godoc
//
//	@Summary		Publish auction
//	@Description	Move a draft auction to scheduled with its bidding window.
//	@Tags			Auctions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			auctionID	path		int							true	"Auction ID"
//	@Param			request		body		dto.PublishAuctionRequestDTO	true	"Bidding window"
//	@Success		200			{object}	dto.AuctionResponseDTO		"Scheduled auction"
//	@Failure		400			{object}	utils.Response				"Invalid schedule"
//	@Failure		401			{object}	utils.Response				"User not authorized"
//	@Failure		404			{object}	utils.Response				"Auction not found"
//	@Failure		409			{object}	utils.Response				"Auction is not a draft"
//	@Failure		500			{object}	utils.Response				"Internal server error"
//	@Router			/api/auctions/{auctionID}/publish [post]
func (h *AuctionHandler) PublishAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDParam(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid auction id")
		return
	}

	var req dto.PublishAuctionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	auction, err := h.auctionService.Publish(r.Context(), auctionID, req.StartAt, req.EndAt)
	if err != nil {
		switch {
		case errors.Is(err, auctionservice.ErrInvalidSchedule):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auctionservice.ErrAuctionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, auctionservice.ErrInvalidTransition):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(auction, nil, auction.StartingPrice))
}

// PlaceBid godoc
//
//	@Summary		Place a bid
//	@Description	Place a bid on a live auction. Funds are reserved from the available bucket and locked behind the bid; the displaced leader's hold is released.
//	@Tags			Auctions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			auctionID	path		int						true	"Auction ID"
//	@Param			request		body		dto.PlaceBidRequestDTO	true	"Bid payload"
//	@Success		200			{object}	dto.BidDTO				"Accepted bid"
//	@Failure		400			{object}	utils.Response			"Invalid request"
//	@Failure		401			{object}	utils.Response			"User not authorized"
//	@Failure		402			{object}	utils.Response			"Insufficient funds"
//	@Failure		403			{object}	utils.Response			"User not verified"
//	@Failure		404			{object}	utils.Response			"Auction not found"
//	@Failure		409			{object}	utils.Response			"Auction not open or bid too low"
//	@Failure		429			{object}	utils.Response			"Auction busy, retry later"
//	@Failure		500			{object}	utils.Response			"Internal server error"
//	@Router			/api/user/auctions/{auctionID}/bids [post]
func (h *AuctionHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	auctionID, err := auctionIDParam(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid auction id")
		return
	}

	var req dto.PlaceBidRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	bid, err := h.bidService.PlaceBid(r.Context(), userID, auctionID, req.Amount, req.RequestID)
	if err != nil {
		switch {
		case errors.Is(err, bidservice.ErrNotVerified):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ledgerservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, bidservice.ErrAuctionNotOpen), errors.Is(err, bidservice.ErrBidTooLow):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, bidservice.ErrBusy):
			utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, auctionservice.ErrAuctionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BidDTO{
		ID:          bid.ID,
		AuctionID:   bid.AuctionID,
		AmountMinor: bid.AmountMinor,
		PlacedAt:    bid.PlacedAt,
	})
}
