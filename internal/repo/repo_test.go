package repo

import (
	"testing"

	"github.com/GlebRadaev/bidcore/internal/pg"
	auctionrepo "github.com/GlebRadaev/bidcore/internal/repo/auction-repo"
	bidrepo "github.com/GlebRadaev/bidcore/internal/repo/bid-repo"
	ledgerrepo "github.com/GlebRadaev/bidcore/internal/repo/ledger-repo"
	userrepo "github.com/GlebRadaev/bidcore/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/bidcore/internal/repo/wallet-repo"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.UserRepo)
	assert.NotNil(t, repo.WalletRepo)
	assert.NotNil(t, repo.LedgerRepo)
	assert.NotNil(t, repo.AuctionRepo)
	assert.NotNil(t, repo.BidRepo)

	assert.IsType(t, &userrepo.Repository{}, repo.UserRepo)
	assert.IsType(t, &walletrepo.Repository{}, repo.WalletRepo)
	assert.IsType(t, &ledgerrepo.Repository{}, repo.LedgerRepo)
	assert.IsType(t, &auctionrepo.Repository{}, repo.AuctionRepo)
	assert.IsType(t, &bidrepo.Repository{}, repo.BidRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
