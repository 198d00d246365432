// Package exchange implements sweeper repositories for supported exchanges.
package exchange

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/clients"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/symbol"
	"go.uber.org/zap"
)

const (
	pathWallets     = "v2/auth/r/wallets"
	pathPairInfo    = "v2/conf/pub:info:pair"
	pathTickers     = "v2/tickers"
	pathTransfer    = "v2/auth/w/transfer"
	pathOrderSubmit = "v2/auth/w/order/submit"

	allSymbols = "ALL"

	// bitfinexAmountPrecision max decimal places accepted for order amounts
	bitfinexAmountPrecision = 8
)

// BitfinexAPI signed and public Bitfinex REST calls.
type BitfinexAPI interface {
	GetPublic(ctx context.Context, path string, query url.Values, out interface{}) error
	ReadAuthenticated(ctx context.Context, path string, body interface{}, out interface{}) error
	PostAuthenticated(ctx context.Context, path string, body interface{}, out interface{}) error
}

// Bitfinex repository backed by the Bitfinex v2 REST API.
type Bitfinex struct {
	api BitfinexAPI
	l   *zap.Logger
}

// NewBitfinex creates a Bitfinex repository.
func NewBitfinex(api BitfinexAPI, l *zap.Logger) *Bitfinex {
	if l == nil {
		l = zap.NewNop()
	}
	return &Bitfinex{api: api, l: l}
}

// GetWallets returns every wallet of the account.
func (b *Bitfinex) GetWallets(ctx context.Context) ([]domain.Wallet, error) {
	var raw []json.RawMessage
	if err := b.api.ReadAuthenticated(ctx, pathWallets, nil, &raw); err != nil {
		return nil, repoError("get wallets", err)
	}

	wallets := make([]domain.Wallet, 0, len(raw))
	for _, r := range raw {
		w, err := decodeWallet(r)
		if err != nil {
			return nil, domain.NewRepoError("decode wallets", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// GetTradingPairs returns exchange pairs with their order size limits.
func (b *Bitfinex) GetTradingPairs(ctx context.Context) ([]domain.TradingPair, error) {
	var raw [][]json.RawMessage
	if err := b.api.GetPublic(ctx, pathPairInfo, nil, &raw); err != nil {
		return nil, repoError("get trading pairs", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	pairs := make([]domain.TradingPair, 0, len(raw[0]))
	for _, r := range raw[0] {
		p, err := decodePair(r)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidPair) {
				b.l.Warn("skip trading pair", zap.Error(err))
				continue
			}
			return nil, domain.NewRepoError("decode trading pairs", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// GetTickers returns trading tickers for the given symbols, all of them when none are given.
func (b *Bitfinex) GetTickers(ctx context.Context, symbols ...string) ([]domain.Ticker, error) {
	query := url.Values{}
	if len(symbols) == 0 {
		query.Set("symbols", allSymbols)
	} else {
		native := make([]string, 0, len(symbols))
		for _, s := range symbols {
			native = append(native, nativeSymbol(s))
		}
		query.Set("symbols", strings.Join(native, ","))
	}

	var raw [][]json.RawMessage
	if err := b.api.GetPublic(ctx, pathTickers, query, &raw); err != nil {
		return nil, repoError("get tickers", err)
	}

	tickers := make([]domain.Ticker, 0, len(raw))
	for _, r := range raw {
		if !strings.HasPrefix(tickerSymbolOf(r), symbol.TradingPrefix) {
			continue
		}
		t, err := decodeTicker(r)
		if err != nil {
			return nil, domain.NewRepoError("decode tickers", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, nil
}

type transferRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Currency   string `json:"currency"`
	CurrencyTo string `json:"currency_to"`
	Amount     string `json:"amount"`
}

// Transfer moves funds between wallets.
func (b *Bitfinex) Transfer(ctx context.Context, from, to domain.WalletType, currencyFrom, currencyTo domain.Currency, amount decimal.Decimal) error {
	req := transferRequest{
		From:       from.String(),
		To:         to.String(),
		Currency:   strings.ToUpper(currencyFrom.String()),
		CurrencyTo: strings.ToUpper(currencyTo.String()),
		Amount:     amount.String(),
	}

	var resp json.RawMessage
	if err := b.api.PostAuthenticated(ctx, pathTransfer, req, &resp); err != nil {
		return repoError("transfer", err)
	}
	if err := notificationError(resp); err != nil {
		return domain.NewRepoError("transfer", err)
	}
	return nil
}

type orderRequest struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

// CreateOrder submits an order, positive amounts buy and negative amounts sell.
func (b *Bitfinex) CreateOrder(ctx context.Context, orderType domain.OrderType, tradingSymbol string, amount decimal.Decimal) error {
	amount = amount.Truncate(bitfinexAmountPrecision)
	if amount.IsZero() {
		return domain.NewRepoError("create order", errors.Errorf("amount for %s rounds to zero", tradingSymbol))
	}

	req := orderRequest{
		Type:   orderType.String(),
		Symbol: nativeSymbol(tradingSymbol),
		Amount: amount.String(),
	}

	var resp json.RawMessage
	if err := b.api.PostAuthenticated(ctx, pathOrderSubmit, req, &resp); err != nil {
		return repoError("create order", err)
	}
	if err := notificationError(resp); err != nil {
		return domain.NewRepoError("create order", err)
	}
	return nil
}

// nativeSymbol converts tbtcusd to tBTCUSD.
func nativeSymbol(tradingSymbol string) string {
	pair, ok := symbol.StripMarketPrefix(strings.ToLower(tradingSymbol))
	if !ok {
		return tradingSymbol
	}
	return symbol.TradingPrefix + strings.ToUpper(pair)
}

func repoError(op string, err error) error {
	repoErr := domain.NewRepoError(op, err)

	var httpErr *clients.HTTPError
	if errors.As(err, &httpErr) {
		repoErr.StatusCode = httpErr.StatusCode
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		repoErr.StatusCode = apiErr.StatusCode
	}
	return repoErr
}
