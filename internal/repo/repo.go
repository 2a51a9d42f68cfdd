package repo

import (
	"github.com/GlebRadaev/bidcore/internal/pg"
	auctionrepo "github.com/GlebRadaev/bidcore/internal/repo/auction-repo"
	bidrepo "github.com/GlebRadaev/bidcore/internal/repo/bid-repo"
	ledgerrepo "github.com/GlebRadaev/bidcore/internal/repo/ledger-repo"
	userrepo "github.com/GlebRadaev/bidcore/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/bidcore/internal/repo/wallet-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	WalletRepo  *walletrepo.Repository
	LedgerRepo  *ledgerrepo.Repository
	AuctionRepo *auctionrepo.Repository
	BidRepo     *bidrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:    userrepo.New(conn),
		WalletRepo:  walletrepo.New(conn),
		LedgerRepo:  ledgerrepo.New(conn),
		AuctionRepo: auctionrepo.New(conn, txManager),
		BidRepo:     bidrepo.New(conn),
	}
}
