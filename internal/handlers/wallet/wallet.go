package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/dto"
	"github.com/GlebRadaev/bidcore/internal/service/ledgerservice"
	"github.com/GlebRadaev/bidcore/pkg/auth"
	"github.com/GlebRadaev/bidcore/pkg/utils"
	"github.com/GlebRadaev/bidcore/pkg/validate"
)

type Service interface {
	GetBalance(ctx context.Context, userID int) (*domain.Wallet, error)
	Deposit(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
}

type WalletHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary		Get wallet balance
//	@Description	Retrieve the three wallet buckets (available, on hold, locked) in minor currency units.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.WalletResponseDTO	"Wallet balances"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	wallet, err := h.ledgerService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WalletResponseDTO{
		Currency:  wallet.Currency,
		Available: wallet.Available,
		OnHold:    wallet.OnHold,
		Locked:    wallet.Locked,
	})
}

// Deposit godoc
//
//	@Summary		Deposit funds
//	@Description	Credit confirmed gateway funds to the available bucket. The reference is the gateway payment reference number.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request payload"
//	@Success		200		{object}	dto.DepositResponseDTO	"Updated available balance"
//	@Failure		400		{object}	utils.Response			"Invalid amount"
//	@Failure		401		{object}	utils.Response			"User not authorized"
//	@Failure		422		{object}	utils.Response			"Invalid payment reference"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet/deposit [post]
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if !validate.IsPaymentReference(req.Reference) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid payment reference")
		return
	}

	wallet, err := h.ledgerService.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrWalletNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.DepositResponseDTO{
		Currency:  wallet.Currency,
		Available: wallet.Available,
	})
}
