package exchange

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/symbol"
	"go.uber.org/zap"
)

const (
	bybitCategorySpot    = "spot"
	bybitAccountUnified  = "UNIFIED"
	bybitStatusTrading   = "Trading"
	bybitQuotePrecision  = 8
	bybitOrderLinkPrefix = "duster-"
)

// Bybit repository backed by the Bybit v5 unified account API.
// Spot balances are reported as exchange wallets. Market buys are sent in quote
// units, which Bybit requires, using the last known price.
type Bybit struct {
	client *bybit.Client
	l      *zap.Logger

	mu      sync.RWMutex
	markets map[string]bybitMarket
	prices  map[string]decimal.Decimal
}

type bybitMarket struct {
	symbol   string
	stepSize decimal.Decimal
}

// NewBybit creates a Bybit repository.
func NewBybit(client *bybit.Client, l *zap.Logger) *Bybit {
	if l == nil {
		l = zap.NewNop()
	}
	return &Bybit{
		client:  client,
		l:       l,
		markets: make(map[string]bybitMarket),
		prices:  make(map[string]decimal.Decimal),
	}
}

// GetWallets returns unified account balances as exchange wallets.
// The available balance excludes funds locked in open orders.
func (b *Bybit) GetWallets(_ context.Context) ([]domain.Wallet, error) {
	res, err := b.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5(bybitAccountUnified), nil)
	if err != nil {
		return nil, domain.NewRepoError("get wallet balance", err)
	}

	var wallets []domain.Wallet
	for _, account := range res.Result.List {
		for _, coin := range account.Coin {
			balance, err := decimal.NewFromString(coin.WalletBalance)
			if err != nil {
				return nil, domain.NewRepoError("get wallet balance", errors.Wrapf(err, "parse %s balance", coin.Coin))
			}
			locked, err := optionalDecimal(coin.Locked)
			if err != nil {
				return nil, domain.NewRepoError("get wallet balance", errors.Wrapf(err, "parse %s locked balance", coin.Coin))
			}

			available := balance.Sub(locked)
			if available.IsZero() {
				continue
			}
			wallets = append(wallets, domain.NewWallet(domain.WalletTypeExchange.String(), string(coin.Coin), available))
		}
	}
	return wallets, nil
}

// optionalDecimal parses s, treating an empty string as zero.
func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// GetTradingPairs returns spot instruments with their order quantity limits.
func (b *Bybit) GetTradingPairs(_ context.Context) ([]domain.TradingPair, error) {
	res, err := b.client.V5().Market().GetInstrumentsInfo(bybit.V5GetInstrumentsInfoParam{
		Category: bybitCategorySpot,
	})
	if err != nil {
		return nil, domain.NewRepoError("get instruments", err)
	}

	markets := make(map[string]bybitMarket)
	var pairs []domain.TradingPair
	for _, item := range res.Result.Spot.List {
		if string(item.Status) != bybitStatusTrading {
			continue
		}

		minQty, errMin := decimal.NewFromString(item.LotSizeFilter.MinOrderQty)
		maxQty, errMax := decimal.NewFromString(item.LotSizeFilter.MaxOrderQty)
		if errMin != nil || errMax != nil {
			b.l.Warn("skip bybit instrument with malformed lot size", zap.String("symbol", string(item.Symbol)))
			continue
		}
		step, err := decimal.NewFromString(item.LotSizeFilter.BasePrecision)
		if err != nil {
			step = decimal.Zero
		}

		p, err := domain.NewTradingPair(canonicalPairSymbol(string(item.BaseCoin), string(item.QuoteCoin)),
			string(item.BaseCoin), string(item.QuoteCoin), minQty, maxQty)
		if err != nil {
			b.l.Warn("skip trading pair", zap.Error(err))
			continue
		}

		pairs = append(pairs, p)
		markets[p.Symbol] = bybitMarket{symbol: string(item.Symbol), stepSize: step}
	}

	b.mu.Lock()
	b.markets = markets
	b.mu.Unlock()

	return pairs, nil
}

// GetTickers returns last spot prices of the known trading pairs. Symbols filter the result.
func (b *Bybit) GetTickers(ctx context.Context, symbols ...string) ([]domain.Ticker, error) {
	if err := b.ensureMarkets(ctx); err != nil {
		return nil, err
	}

	res, err := b.client.V5().Market().GetTickers(bybit.V5GetTickersParam{Category: bybitCategorySpot})
	if err != nil {
		return nil, domain.NewRepoError("get tickers", err)
	}

	wanted := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		wanted[strings.ToLower(s)] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	byNative := make(map[string]string, len(b.markets))
	for pairSymbol, m := range b.markets {
		byNative[m.symbol] = pairSymbol
	}

	var tickers []domain.Ticker
	for _, item := range res.Result.Spot.List {
		pairSymbol, ok := byNative[string(item.Symbol)]
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(item.LastPrice)
		if err != nil {
			b.l.Warn("skip bybit price", zap.String("symbol", string(item.Symbol)), zap.Error(err))
			continue
		}
		b.prices[pairSymbol] = price

		tickerSymbol := symbol.TradingSymbol(pairSymbol)
		if len(wanted) > 0 {
			if _, ok := wanted[tickerSymbol]; !ok {
				continue
			}
		}

		base, quote, err := symbol.ParsePair(pairSymbol)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, domain.NewTicker(tickerSymbol, base, quote, price))
	}
	return tickers, nil
}

// Transfer is not supported, unified accounts hold spot and margin funds in one wallet.
func (b *Bybit) Transfer(_ context.Context, from, to domain.WalletType, currencyFrom, _ domain.Currency, _ decimal.Decimal) error {
	return domain.NewRepoError("transfer", errors.Errorf("bybit does not support %s -> %s transfer of %s", from, to, currencyFrom))
}

// CreateOrder places a spot market order, positive amounts buy and negative amounts sell.
func (b *Bybit) CreateOrder(ctx context.Context, orderType domain.OrderType, tradingSymbol string, amount decimal.Decimal) error {
	if orderType != domain.OrderTypeExchangeMarket {
		return domain.NewRepoError("create order", errors.Errorf("unsupported order type %s", orderType))
	}
	if err := b.ensureMarkets(ctx); err != nil {
		return err
	}

	pairSymbol, _ := symbol.StripMarketPrefix(strings.ToLower(tradingSymbol))
	b.mu.RLock()
	m, ok := b.markets[pairSymbol]
	price, priced := b.prices[pairSymbol]
	b.mu.RUnlock()
	if !ok {
		return domain.NewRepoError("create order", errors.Errorf("unknown symbol %s", tradingSymbol))
	}

	side := bybit.SideSell
	qty := floorToStep(amount.Abs(), m.stepSize)
	if amount.IsPositive() {
		if !priced {
			return domain.NewRepoError("create order", errors.Errorf("no price for %s", tradingSymbol))
		}
		side = bybit.SideBuy
		qty = amount.Mul(price).RoundDown(bybitQuotePrecision)
	}
	if !qty.IsPositive() {
		return domain.NewRepoError("create order", errors.Errorf("quantity for %s rounds to zero", tradingSymbol))
	}

	linkID := bybitOrderLinkPrefix + uuid.NewString()
	_, err := b.client.V5().Order().CreateOrder(bybit.V5CreateOrderParam{
		Category:    bybitCategorySpot,
		Symbol:      bybit.SymbolV5(m.symbol),
		Side:        side,
		OrderType:   bybit.OrderTypeMarket,
		Qty:         qty.String(),
		OrderLinkID: &linkID,
	})
	if err != nil {
		return domain.NewRepoError("create order", err)
	}
	return nil
}

func (b *Bybit) ensureMarkets(ctx context.Context) error {
	b.mu.RLock()
	loaded := len(b.markets) > 0
	b.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := b.GetTradingPairs(ctx)
	return err
}
