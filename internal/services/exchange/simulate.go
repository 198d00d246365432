package exchange

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"go.uber.org/zap"
)

// Repository exchange account operations.
type Repository interface {
	GetWallets(ctx context.Context) ([]domain.Wallet, error)
	GetTradingPairs(ctx context.Context) ([]domain.TradingPair, error)
	GetTickers(ctx context.Context, symbols ...string) ([]domain.Ticker, error)
	Transfer(ctx context.Context, from, to domain.WalletType, currencyFrom, currencyTo domain.Currency, amount decimal.Decimal) error
	CreateOrder(ctx context.Context, orderType domain.OrderType, tradingSymbol string, amount decimal.Decimal) error
}

// transferCurrencyMapper implemented by backends that credit a transfer in a
// currency other than currencyTo.
type transferCurrencyMapper interface {
	TransferCurrency(currencyFrom, currencyTo domain.Currency) domain.Currency
}

type walletKey struct {
	walletType domain.WalletType
	currency   domain.Currency
}

// Simulate reads from a live repository and executes transfers and orders
// against an in-memory balance overlay instead of the exchange.
type Simulate struct {
	live Repository
	l    *zap.Logger

	mu      sync.RWMutex
	deltas  map[walletKey]decimal.Decimal
	tickers map[string]domain.Ticker
}

// NewSimulate wraps live for a dry run.
func NewSimulate(live Repository, l *zap.Logger) (*Simulate, error) {
	if live == nil {
		return nil, errors.New("live repository is required for Simulate")
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Simulate{
		live:    live,
		l:       l,
		deltas:  make(map[walletKey]decimal.Decimal),
		tickers: make(map[string]domain.Ticker),
	}, nil
}

// GetWallets returns live wallets adjusted by simulated transfers and orders.
func (s *Simulate) GetWallets(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.live.GetWallets(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[walletKey]bool, len(wallets))
	out := make([]domain.Wallet, 0, len(wallets)+len(s.deltas))
	for _, w := range wallets {
		key := walletKey{walletType: w.Type, currency: w.Currency}
		seen[key] = true
		w.BalanceAvailable = w.BalanceAvailable.Add(s.deltas[key])
		out = append(out, w)
	}

	var added []domain.Wallet
	for key, delta := range s.deltas {
		if seen[key] {
			continue
		}
		added = append(added, domain.Wallet{Type: key.walletType, Currency: key.currency, BalanceAvailable: delta})
	}
	sort.Slice(added, func(i, j int) bool { return added[i].String() < added[j].String() })

	return append(out, added...), nil
}

// GetTradingPairs delegates to the live repository.
func (s *Simulate) GetTradingPairs(ctx context.Context) ([]domain.TradingPair, error) {
	return s.live.GetTradingPairs(ctx)
}

// GetTickers delegates to the live repository and remembers prices for simulated orders.
func (s *Simulate) GetTickers(ctx context.Context, symbols ...string) ([]domain.Ticker, error) {
	tickers, err := s.live.GetTickers(ctx, symbols...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, t := range tickers {
		s.tickers[t.Symbol] = t
	}
	s.mu.Unlock()

	return tickers, nil
}

// Transfer moves the simulated balance between wallets. The destination currency
// is the one the live backend would credit.
func (s *Simulate) Transfer(_ context.Context, from, to domain.WalletType, currencyFrom, currencyTo domain.Currency, amount decimal.Decimal) error {
	if m, ok := s.live.(transferCurrencyMapper); ok {
		currencyTo = m.TransferCurrency(currencyFrom, currencyTo)
	}

	s.mu.Lock()
	s.add(walletKey{walletType: from, currency: currencyFrom}, amount.Neg())
	s.add(walletKey{walletType: to, currency: currencyTo}, amount)
	s.mu.Unlock()

	s.l.Info("simulated transfer",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("currency", currencyFrom),
		zap.Stringer("currency_to", currencyTo),
		zap.String("amount", amount.String()))
	return nil
}

// CreateOrder fills the order at the last known price of its market.
func (s *Simulate) CreateOrder(_ context.Context, orderType domain.OrderType, tradingSymbol string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickers[strings.ToLower(tradingSymbol)]
	if !ok || !t.LastPrice.IsPositive() {
		return domain.NewRepoError("create order", errors.Errorf("no price for %s", tradingSymbol))
	}

	s.add(walletKey{walletType: domain.WalletTypeExchange, currency: t.Base}, amount)
	s.add(walletKey{walletType: domain.WalletTypeExchange, currency: t.Quote}, amount.Mul(t.LastPrice).Neg())

	s.l.Info("simulated order",
		zap.Stringer("type", orderType),
		zap.String("symbol", tradingSymbol),
		zap.String("amount", amount.String()),
		zap.String("price", t.LastPrice.String()))
	return nil
}

func (s *Simulate) add(key walletKey, amount decimal.Decimal) {
	s.deltas[key] = s.deltas[key].Add(amount)
}
