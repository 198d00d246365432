package exchange

import (
	"context"
	"strings"
	"sync"

	"github.com/adshao/go-binance/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/symbol"
	"go.uber.org/zap"
)

const (
	binanceSymbolTrading = "TRADING"
	binanceClientPrefix  = "duster-"
	pairDelimiter        = ":"
)

// Binance repository backed by the Binance spot and cross margin APIs.
// Pairs use base:quote symbols since Binance codes are not fixed width.
type Binance struct {
	client *binance.Client
	l      *zap.Logger

	mu sync.RWMutex
	// native Binance symbol and lot step by pair symbol
	markets map[string]binanceMarket
}

type binanceMarket struct {
	symbol   string
	stepSize decimal.Decimal
}

// NewBinance creates a Binance repository.
func NewBinance(client *binance.Client, l *zap.Logger) *Binance {
	if l == nil {
		l = zap.NewNop()
	}
	return &Binance{client: client, l: l, markets: make(map[string]binanceMarket)}
}

// GetWallets returns free spot balances as exchange wallets and free cross margin balances as margin wallets.
// Margin wallets are omitted when the margin account cannot be read.
func (b *Binance) GetWallets(ctx context.Context) ([]domain.Wallet, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, domain.NewRepoError("get spot account", err)
	}

	var wallets []domain.Wallet
	for _, balance := range account.Balances {
		free, err := decimal.NewFromString(balance.Free)
		if err != nil {
			return nil, domain.NewRepoError("get spot account", errors.Wrapf(err, "parse %s balance", balance.Asset))
		}
		if free.IsZero() {
			continue
		}
		wallets = append(wallets, domain.NewWallet(domain.WalletTypeExchange.String(), balance.Asset, free))
	}

	// accounts without margin trading enabled reject this call
	margin, err := b.client.NewGetMarginAccountService().Do(ctx)
	if err != nil {
		b.l.Warn("binance margin account unavailable", zap.Error(err))
		return wallets, nil
	}
	for _, asset := range margin.UserAssets {
		free, err := decimal.NewFromString(asset.Free)
		if err != nil {
			return nil, domain.NewRepoError("get margin account", errors.Wrapf(err, "parse %s balance", asset.Asset))
		}
		if free.IsZero() {
			continue
		}
		wallets = append(wallets, domain.NewWallet(domain.WalletTypeMargin.String(), asset.Asset, free))
	}

	return wallets, nil
}

// GetTradingPairs returns trading symbols with their LOT_SIZE limits.
func (b *Binance) GetTradingPairs(ctx context.Context) ([]domain.TradingPair, error) {
	info, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, domain.NewRepoError("get exchange info", err)
	}

	markets := make(map[string]binanceMarket, len(info.Symbols))
	pairs := make([]domain.TradingPair, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != binanceSymbolTrading {
			continue
		}
		lot := s.LotSizeFilter()
		if lot == nil {
			b.l.Warn("skip binance symbol without lot size", zap.String("symbol", s.Symbol))
			continue
		}

		minQty, errMin := decimal.NewFromString(lot.MinQuantity)
		maxQty, errMax := decimal.NewFromString(lot.MaxQuantity)
		step, errStep := decimal.NewFromString(lot.StepSize)
		if errMin != nil || errMax != nil || errStep != nil {
			b.l.Warn("skip binance symbol with malformed lot size", zap.String("symbol", s.Symbol))
			continue
		}

		pairSymbol := canonicalPairSymbol(s.BaseAsset, s.QuoteAsset)
		p, err := domain.NewTradingPair(pairSymbol, s.BaseAsset, s.QuoteAsset, minQty, maxQty)
		if err != nil {
			b.l.Warn("skip trading pair", zap.Error(err))
			continue
		}

		pairs = append(pairs, p)
		markets[p.Symbol] = binanceMarket{symbol: s.Symbol, stepSize: step}
	}

	b.mu.Lock()
	b.markets = markets
	b.mu.Unlock()

	return pairs, nil
}

// GetTickers returns last prices of the known trading pairs. Symbols filter the result.
func (b *Binance) GetTickers(ctx context.Context, symbols ...string) ([]domain.Ticker, error) {
	if err := b.ensureMarkets(ctx); err != nil {
		return nil, err
	}

	prices, err := b.client.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, domain.NewRepoError("get tickers", err)
	}

	wanted := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		wanted[strings.ToLower(s)] = struct{}{}
	}

	b.mu.RLock()
	byNative := make(map[string]string, len(b.markets))
	for pairSymbol, m := range b.markets {
		byNative[m.symbol] = pairSymbol
	}
	b.mu.RUnlock()

	tickers := make([]domain.Ticker, 0, len(prices))
	for _, p := range prices {
		pairSymbol, ok := byNative[p.Symbol]
		if !ok {
			continue
		}
		tickerSymbol := symbol.TradingSymbol(pairSymbol)
		if len(wanted) > 0 {
			if _, ok := wanted[tickerSymbol]; !ok {
				continue
			}
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			b.l.Warn("skip binance price", zap.String("symbol", p.Symbol), zap.Error(err))
			continue
		}

		base, quote, err := symbol.ParsePair(pairSymbol)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, domain.NewTicker(tickerSymbol, base, quote, price))
	}
	return tickers, nil
}

// Transfer moves funds from the cross margin account to the spot account.
// Binance keeps the asset code across accounts, so currencyTo is not used.
func (b *Binance) Transfer(ctx context.Context, from, to domain.WalletType, currencyFrom, _ domain.Currency, amount decimal.Decimal) error {
	if from != domain.WalletTypeMargin || to != domain.WalletTypeExchange {
		return domain.NewRepoError("transfer", errors.Errorf("unsupported transfer %s -> %s", from, to))
	}

	_, err := b.client.NewMarginTransferService().
		Asset(strings.ToUpper(currencyFrom.String())).
		Amount(amount.String()).
		Type(binance.MarginTransferTypeToMain).
		Do(ctx)
	if err != nil {
		return domain.NewRepoError("transfer", err)
	}
	return nil
}

// TransferCurrency returns currencyFrom: Binance keeps the asset code across accounts.
func (b *Binance) TransferCurrency(currencyFrom, _ domain.Currency) domain.Currency {
	return currencyFrom
}

// CreateOrder places a spot market order, positive amounts buy and negative amounts sell.
func (b *Binance) CreateOrder(ctx context.Context, orderType domain.OrderType, tradingSymbol string, amount decimal.Decimal) error {
	if orderType != domain.OrderTypeExchangeMarket {
		return domain.NewRepoError("create order", errors.Errorf("unsupported order type %s", orderType))
	}
	if err := b.ensureMarkets(ctx); err != nil {
		return err
	}

	pairSymbol, _ := symbol.StripMarketPrefix(strings.ToLower(tradingSymbol))
	b.mu.RLock()
	m, ok := b.markets[pairSymbol]
	b.mu.RUnlock()
	if !ok {
		return domain.NewRepoError("create order", errors.Errorf("unknown symbol %s", tradingSymbol))
	}

	side := binance.SideTypeBuy
	if amount.IsNegative() {
		side = binance.SideTypeSell
	}
	qty := floorToStep(amount.Abs(), m.stepSize)
	if !qty.IsPositive() {
		return domain.NewRepoError("create order", errors.Errorf("quantity %s below lot step %s", amount.Abs().String(), m.stepSize.String()))
	}

	_, err := b.client.NewCreateOrderService().Symbol(m.symbol).
		Side(side).Type(binance.OrderTypeMarket).
		Quantity(qty.String()).
		NewClientOrderID(binanceClientPrefix + uuid.NewString()[:18]).
		Do(ctx)
	if err != nil {
		return domain.NewRepoError("create order", err)
	}
	return nil
}

func (b *Binance) ensureMarkets(ctx context.Context) error {
	b.mu.RLock()
	loaded := len(b.markets) > 0
	b.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := b.GetTradingPairs(ctx)
	return err
}

func canonicalPairSymbol(base, quote string) string {
	return strings.ToLower(base) + pairDelimiter + strings.ToLower(quote)
}

func floorToStep(qty, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return qty
	}
	return qty.Div(step).Floor().Mul(step)
}
