package verification

import (
	"context"
	"errors"
	"net/http"

	"github.com/GlebRadaev/bidcore/internal/domain"
	"github.com/GlebRadaev/bidcore/internal/dto"
	"github.com/GlebRadaev/bidcore/internal/service/verifyservice"
	"github.com/GlebRadaev/bidcore/pkg/auth"
	"github.com/GlebRadaev/bidcore/pkg/utils"
)

type Service interface {
	GetState(ctx context.Context, userID int) (domain.VerificationState, error)
	RequestVerification(ctx context.Context, userID int) (domain.VerificationState, error)
}

type VerificationHandler struct {
	verifyService Service
}

func New(verifyService Service) *VerificationHandler {
	return &VerificationHandler{
		verifyService: verifyService,
	}
}

// GetState godoc
//
//	@Summary		Get verification state
//	@Description	Retrieve the user's identity-verification state. Only verified users may place bids.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.VerificationResponseDTO	"Verification state"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/user/verification [get]
func (h *VerificationHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	state, err := h.verifyService.GetState(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, verifyservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.VerificationResponseDTO{State: string(state)})
}

// RequestVerification godoc
//
//	@Summary		Request verification
//	@Description	Submit the user for KYC review; the state moves to pending until the review completes.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		202	{object}	dto.VerificationResponseDTO	"Resulting state"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/user/verification [post]
func (h *VerificationHandler) RequestVerification(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	state, err := h.verifyService.RequestVerification(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, verifyservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, dto.VerificationResponseDTO{State: string(state)})
}
