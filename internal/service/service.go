package service

import (
	"github.com/GlebRadaev/bidcore/internal/config"
	"github.com/GlebRadaev/bidcore/internal/events"
	"github.com/GlebRadaev/bidcore/internal/handlers/auth"
	"github.com/GlebRadaev/bidcore/internal/pg"

	pkgauth "github.com/GlebRadaev/bidcore/pkg/auth"

	"github.com/GlebRadaev/bidcore/internal/repo"
	"github.com/GlebRadaev/bidcore/internal/service/auctionservice"
	"github.com/GlebRadaev/bidcore/internal/service/authservice"
	"github.com/GlebRadaev/bidcore/internal/service/bidservice"
	"github.com/GlebRadaev/bidcore/internal/service/ledgerservice"
	"github.com/GlebRadaev/bidcore/internal/service/settlementservice"
	"github.com/GlebRadaev/bidcore/internal/service/verifyservice"
)

// Deps are the external collaborators the core consumes: identity/KYC,
// payment gateway, verification cache and the event bus.
type Deps struct {
	KYC       verifyservice.KYCClient
	Gateway   settlementservice.Gateway
	Cache     verifyservice.StateCache
	Publisher *events.Publisher
}

type Services struct {
	AuthService       auth.Service
	LedgerService     *ledgerservice.Service
	VerifyService     *verifyservice.Service
	AuctionService    *auctionservice.Service
	BidService        *bidservice.Service
	SettlementService *settlementservice.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, deps Deps) *Services {
	ledgerService := ledgerservice.New(repo.WalletRepo, repo.LedgerRepo, txManager)
	verifyService := verifyservice.New(repo.UserRepo, deps.KYC, deps.Cache)
	auctionService := auctionservice.New(repo.AuctionRepo, repo.BidRepo)
	bidService := bidservice.New(repo.AuctionRepo, repo.BidRepo, ledgerService, verifyService, deps.Publisher, txManager, cfg.LockTimeout)
	settlementService := settlementservice.New(repo.AuctionRepo, repo.BidRepo, ledgerService, deps.Gateway, deps.Publisher, txManager)
	authService := authservice.New(repo.UserRepo, ledgerService, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:       authService,
		LedgerService:     ledgerService,
		VerifyService:     verifyService,
		AuctionService:    auctionService,
		BidService:        bidService,
		SettlementService: settlementService,
	}
}
