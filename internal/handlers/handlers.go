package handlers

import (
	"net/http"

	_ "github.com/GlebRadaev/bidcore/docs"
	auctionshandlers "github.com/GlebRadaev/bidcore/internal/handlers/auctions"
	authhandlers "github.com/GlebRadaev/bidcore/internal/handlers/auth"
	verificationhandlers "github.com/GlebRadaev/bidcore/internal/handlers/verification"
	wallethandlers "github.com/GlebRadaev/bidcore/internal/handlers/wallet"
	"github.com/GlebRadaev/bidcore/internal/service"
	"github.com/GlebRadaev/bidcore/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type AuctionHandler interface {
	GetAuction(w http.ResponseWriter, r *http.Request)
	CreateAuction(w http.ResponseWriter, r *http.Request)
	PublishAuction(w http.ResponseWriter, r *http.Request)
	PlaceBid(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
}

type VerificationHandler interface {
	GetState(w http.ResponseWriter, r *http.Request)
	RequestVerification(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	AuctionHandler      AuctionHandler
	WalletHandler       WalletHandler
	VerificationHandler VerificationHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		AuctionHandler:      auctionshandlers.New(s.AuctionService, s.BidService),
		WalletHandler:       wallethandlers.New(s.LedgerService),
		VerificationHandler: verificationhandlers.New(s.VerifyService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/auctions", func(r chi.Router) {
		r.Get("/{auctionID}", h.AuctionHandler.GetAuction)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/", h.AuctionHandler.CreateAuction)
			r.Post("/{auctionID}/publish", h.AuctionHandler.PublishAuction)
		})
	})
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/auctions/{auctionID}/bids", h.AuctionHandler.PlaceBid)
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", h.WalletHandler.GetBalance)
				r.Post("/deposit", h.WalletHandler.Deposit)
			})
			r.Route("/verification", func(r chi.Router) {
				r.Get("/", h.VerificationHandler.GetState)
				r.Post("/", h.VerificationHandler.RequestVerification)
			})
		})
	})

	return r
}
