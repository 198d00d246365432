package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/duster/internal/domain"
	repositoryMock "github.com/vadiminshakov/duster/mocks/repository"
	"go.uber.org/zap"
)

func balanceOf(wallets []domain.Wallet, walletType domain.WalletType, currency domain.Currency) decimal.Decimal {
	for _, w := range wallets {
		if w.Type == walletType && w.Currency == currency {
			return w.BalanceAvailable
		}
	}
	return decimal.Zero
}

func TestSimulate_NeverWrites(t *testing.T) {
	live := repositoryMock.NewRepository(t)
	live.On("GetWallets", mock.Anything).Return([]domain.Wallet{
		domain.NewWallet("exchange", "eth", decimal.RequireFromString("0.5")),
		domain.NewWallet("margin", "ustf0", decimal.NewFromInt(5)),
	}, nil)
	live.On("GetTickers", mock.Anything).Return([]domain.Ticker{
		domain.NewTicker("teth:usd", "eth", "usd", decimal.NewFromInt(1700)),
	}, nil).Once()

	sim, err := NewSimulate(live, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sim.Transfer(ctx, domain.WalletTypeMargin, domain.WalletTypeExchange, "ustf0", "ust", decimal.NewFromInt(5)))

	_, err = sim.GetTickers(ctx)
	require.NoError(t, err)
	require.NoError(t, sim.CreateOrder(ctx, domain.OrderTypeExchangeMarket, "teth:usd", decimal.RequireFromString("-0.5")))

	wallets, err := sim.GetWallets(ctx)
	require.NoError(t, err)

	assert.True(t, balanceOf(wallets, domain.WalletTypeExchange, "eth").IsZero())
	assert.True(t, balanceOf(wallets, domain.WalletTypeMargin, "ustf0").IsZero())
	assert.True(t, balanceOf(wallets, domain.WalletTypeExchange, "ust").Equal(decimal.NewFromInt(5)))
	assert.True(t, balanceOf(wallets, domain.WalletTypeExchange, "usd").Equal(decimal.NewFromInt(850)))

	live.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	live.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// assetKeepingRepository credits transfers in the source asset, like Binance.
type assetKeepingRepository struct {
	*repositoryMock.Repository
}

func (assetKeepingRepository) TransferCurrency(currencyFrom, _ domain.Currency) domain.Currency {
	return currencyFrom
}

func TestSimulate_TransferCurrency(t *testing.T) {
	tests := []struct {
		name     string
		wrap     func(m *repositoryMock.Repository) Repository
		credited domain.Currency
		phantom  domain.Currency
	}{
		{
			name:     "backend maps currency",
			wrap:     func(m *repositoryMock.Repository) Repository { return assetKeepingRepository{m} },
			credited: "usdt",
			phantom:  "usd",
		},
		{
			name:     "requested currency",
			wrap:     func(m *repositoryMock.Repository) Repository { return m },
			credited: "usd",
			phantom:  "usdt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := repositoryMock.NewRepository(t)
			live.On("GetWallets", mock.Anything).Return([]domain.Wallet{
				domain.NewWallet("margin", "usdt", decimal.NewFromInt(3)),
			}, nil)

			sim, err := NewSimulate(tt.wrap(live), nil)
			require.NoError(t, err)

			ctx := context.Background()
			require.NoError(t, sim.Transfer(ctx, domain.WalletTypeMargin, domain.WalletTypeExchange, "usdt", "usd", decimal.NewFromInt(3)))

			wallets, err := sim.GetWallets(ctx)
			require.NoError(t, err)
			assert.True(t, balanceOf(wallets, domain.WalletTypeExchange, tt.credited).Equal(decimal.NewFromInt(3)))
			assert.True(t, balanceOf(wallets, domain.WalletTypeExchange, tt.phantom).IsZero())
			assert.True(t, balanceOf(wallets, domain.WalletTypeMargin, "usdt").IsZero())
		})
	}
}

func TestSimulate_OrderWithoutPrice(t *testing.T) {
	sim, err := NewSimulate(repositoryMock.NewRepository(t), nil)
	require.NoError(t, err)

	err = sim.CreateOrder(context.Background(), domain.OrderTypeExchangeMarket, "txmr:btc", decimal.NewFromInt(1))
	assert.True(t, domain.IsRepoError(err))
}

func TestSimulate_ReadErrors(t *testing.T) {
	live := repositoryMock.NewRepository(t)
	live.On("GetWallets", mock.Anything).Return(nil, errors.New("down"))
	live.On("GetTradingPairs", mock.Anything).Return(nil, errors.New("down"))

	sim, err := NewSimulate(live, nil)
	require.NoError(t, err)

	_, err = sim.GetWallets(context.Background())
	assert.Error(t, err)
	_, err = sim.GetTradingPairs(context.Background())
	assert.Error(t, err)

	_, err = NewSimulate(nil, nil)
	assert.Error(t, err)
}
