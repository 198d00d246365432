// Package sweeper moves margin balances to the exchange wallet and converts dust
// balances into target currencies.
package sweeper

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/market"
	"github.com/vadiminshakov/duster/internal/planner"
	"go.uber.org/zap"
)

// Repository exchange account operations.
//
//go:generate mockery --name Repository --output ../../mocks/repository --outpkg repository
type Repository interface {
	GetWallets(ctx context.Context) ([]domain.Wallet, error)
	GetTradingPairs(ctx context.Context) ([]domain.TradingPair, error)
	// GetTickers returns tickers for the given symbols, all tickers when none are given.
	GetTickers(ctx context.Context, symbols ...string) ([]domain.Ticker, error)
	Transfer(ctx context.Context, from, to domain.WalletType, currencyFrom, currencyTo domain.Currency, amount decimal.Decimal) error
	CreateOrder(ctx context.Context, orderType domain.OrderType, tradingSymbol string, amount decimal.Decimal) error
}

// Approver confirms a batch of orders before it is sent to the exchange.
//
//go:generate mockery --name Approver --output ../../mocks/approver --outpkg approver
type Approver interface {
	Approve(ctx context.Context, orders []domain.Order) (bool, error)
}

const notApprovedMessage = "skipped: not approved"

// spotCurrencyLen margin currency codes map to spot codes by their first three characters.
const spotCurrencyLen = 3

// Report attempts made during one run.
type Report struct {
	RunID     string
	Transfers []domain.Attempt[domain.Transfer]
	Orders    []domain.Attempt[domain.Order]
}

// Sweeper runs the sweep phases against one exchange account.
type Sweeper struct {
	repo     Repository
	settings Settings
	approver Approver
	l        *zap.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithApprover requires approval of every order batch.
func WithApprover(a Approver) Option {
	return func(s *Sweeper) {
		s.approver = a
	}
}

// New creates a Sweeper.
func New(repo Repository, settings Settings, l *zap.Logger, opts ...Option) (*Sweeper, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	if l == nil {
		l = zap.NewNop()
	}

	s := &Sweeper{repo: repo, settings: settings, l: l}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run performs one sweep. Failed transfers and orders are recorded in the report and
// do not stop the run; failing to read wallets or market data does.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	l := s.l.With(zap.String("run_id", report.RunID))

	transfers, err := s.sweepMargin(ctx, l)
	if err != nil {
		return report, err
	}
	report.Transfers = transfers

	idx, err := s.snapshot(ctx, l)
	if err != nil {
		return report, err
	}
	plan := planner.New(idx, l)

	wallets, err := s.repo.GetWallets(ctx)
	if err != nil {
		return report, errors.Wrap(err, "read wallets for dust conversion")
	}
	dust := s.planDust(wallets, idx, plan, l)
	report.Orders = append(report.Orders, s.executeOrders(ctx, dust, l)...)

	wallets, err = s.repo.GetWallets(ctx)
	if err != nil {
		return report, errors.Wrap(err, "read wallets for final conversion")
	}
	final := s.planFinal(wallets, plan)
	report.Orders = append(report.Orders, s.executeOrders(ctx, final, l)...)

	return report, nil
}

func (s *Sweeper) sweepMargin(ctx context.Context, l *zap.Logger) ([]domain.Attempt[domain.Transfer], error) {
	wallets, err := s.repo.GetWallets(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read wallets for margin sweep")
	}

	transfers := MarginTransfers(wallets)
	attempts := make([]domain.Attempt[domain.Transfer], 0, len(transfers))
	for _, t := range transfers {
		err := s.repo.Transfer(ctx, t.WalletFrom, t.WalletTo, t.CurrencyFrom, t.CurrencyTo, t.Amount)
		if err != nil {
			l.Error("transfer failed", zap.Stringer("transfer", t), zap.Error(err))
			attempts = append(attempts, domain.Failed(t, err))
			continue
		}
		l.Info("transfer done", zap.Stringer("transfer", t))
		attempts = append(attempts, domain.Succeeded(t))
	}
	return attempts, nil
}

func (s *Sweeper) snapshot(ctx context.Context, l *zap.Logger) (*market.Index, error) {
	tickers, err := s.repo.GetTickers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read tickers")
	}
	pairs, err := s.repo.GetTradingPairs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read trading pairs")
	}
	return market.Build(pairs, tickers, l), nil
}

// MarginTransfers builds margin to exchange transfers for every funded margin wallet.
func MarginTransfers(wallets []domain.Wallet) []domain.Transfer {
	var transfers []domain.Transfer
	for _, w := range wallets {
		if w.Type != domain.WalletTypeMargin || !w.HasFunds() {
			continue
		}
		transfers = append(transfers, domain.Transfer{
			WalletFrom:   w.Type,
			WalletTo:     domain.WalletTypeExchange,
			CurrencyFrom: w.Currency,
			CurrencyTo:   spotCurrency(w.Currency),
			Amount:       w.BalanceAvailable,
		})
	}
	return transfers
}

func spotCurrency(c domain.Currency) domain.Currency {
	r := []rune(c.String())
	if len(r) <= spotCurrencyLen {
		return c
	}
	return domain.Currency(r[:spotCurrencyLen])
}

func (s *Sweeper) planDust(wallets []domain.Wallet, idx *market.Index, plan *planner.Planner, l *zap.Logger) []domain.Order {
	var orders []domain.Order
	for _, w := range wallets {
		if w.Type != domain.WalletTypeExchange || s.settings.ignores(w.Currency) || !w.HasFunds() {
			continue
		}

		if s.settings.MaxValue.IsPositive() {
			rate, ok := idx.ValueOf(w.Currency, s.settings.ValueCurrency, s.settings.RouteThrough)
			if !ok {
				l.Info("skip wallet with unknown value",
					zap.Stringer("currency", w.Currency),
					zap.Stringer("value_currency", s.settings.ValueCurrency))
				continue
			}
			value := w.BalanceAvailable.Mul(rate)
			if value.GreaterThan(s.settings.MaxValue) {
				l.Info("skip wallet above max value",
					zap.Stringer("currency", w.Currency),
					zap.String("value", value.StringFixed(2)),
					zap.String("max_value", s.settings.MaxValue.String()))
				continue
			}
		}

		order, ok := s.firstOrder(w, plan)
		if !ok {
			l.Debug("could not exchange", zap.Stringer("currency", w.Currency))
			continue
		}
		orders = append(orders, order)
	}
	return orders
}

func (s *Sweeper) firstOrder(w domain.Wallet, plan *planner.Planner) (domain.Order, bool) {
	for _, target := range s.settings.TargetCurrencies {
		if target.Equal(w.Currency) {
			continue
		}
		if order, ok := plan.Plan(w, target); ok {
			return order, true
		}
	}
	return domain.Order{}, false
}

func (s *Sweeper) planFinal(wallets []domain.Wallet, plan *planner.Planner) []domain.Order {
	intermediate := s.settings.IntermediateCurrency
	if intermediate == "" || intermediate.Equal(s.settings.FinalCurrency) {
		return nil
	}

	var orders []domain.Order
	for _, w := range wallets {
		if w.Type != domain.WalletTypeExchange || !w.Currency.Equal(intermediate) || !w.HasFunds() {
			continue
		}
		if order, ok := plan.Plan(w, s.settings.FinalCurrency); ok {
			orders = append(orders, order)
		}
	}
	return orders
}

func (s *Sweeper) executeOrders(ctx context.Context, orders []domain.Order, l *zap.Logger) []domain.Attempt[domain.Order] {
	if len(orders) == 0 {
		return nil
	}

	attempts := make([]domain.Attempt[domain.Order], 0, len(orders))

	if s.approver != nil {
		approved, err := s.approver.Approve(ctx, orders)
		if err != nil {
			l.Error("order approval failed", zap.Error(err))
		}
		if err != nil || !approved {
			for _, o := range orders {
				attempts = append(attempts, domain.Skipped(o, notApprovedMessage))
			}
			return attempts
		}
	}

	for _, o := range orders {
		if err := s.repo.CreateOrder(ctx, o.Type, o.TradingSymbol, o.Amount); err != nil {
			l.Error("order failed", zap.Stringer("order", o), zap.Error(err))
			attempts = append(attempts, domain.Failed(o, err))
			continue
		}
		l.Info("order placed", zap.Stringer("order", o))
		attempts = append(attempts, domain.Succeeded(o))
	}
	return attempts
}
