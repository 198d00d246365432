package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/duster/internal/clients"
	"github.com/vadiminshakov/duster/internal/domain"
	"go.uber.org/zap"
)

type recordedRequest struct {
	path  string
	query string
	body  map[string]interface{}
}

func newTestBitfinex(t *testing.T, responses map[string]string) (*Bitfinex, *[]recordedRequest) {
	t.Helper()

	var recorded []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{path: r.URL.Path, query: r.URL.RawQuery}
		if r.Method == http.MethodPost {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &rec.body)
		}
		recorded = append(recorded, rec)

		resp, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	api := clients.NewBitfinexClient(clients.BitfinexConfig{
		BaseURL:           srv.URL,
		APIKey:            "key",
		APISecret:         "secret",
		RequestsPerMinute: 600000,
		RetryInterval:     time.Millisecond,
	})
	return NewBitfinex(api, zap.NewNop()), &recorded
}

func TestBitfinex_GetWallets(t *testing.T) {
	b, _ := newTestBitfinex(t, map[string]string{
		"/v2/auth/r/wallets": `[
			["exchange","UST",19.5,0,19.5,"Exchange 19.5 UST",null],
			["margin","USTF0",5,0,null,null,null],
			["funding","BTC",0.1,0,0.05,null,null]
		]`,
	})

	wallets, err := b.GetWallets(context.Background())
	require.NoError(t, err)
	require.Len(t, wallets, 3)

	assert.Equal(t, domain.WalletTypeExchange, wallets[0].Type)
	assert.Equal(t, domain.Currency("ust"), wallets[0].Currency)
	assert.True(t, wallets[0].BalanceAvailable.Equal(decimal.RequireFromString("19.5")))

	assert.Equal(t, domain.WalletTypeMargin, wallets[1].Type)
	assert.True(t, wallets[1].BalanceAvailable.IsZero(), "null available balance is zero")

	assert.True(t, wallets[2].BalanceAvailable.Equal(decimal.RequireFromString("0.05")))
}

func TestBitfinex_GetTradingPairs(t *testing.T) {
	b, _ := newTestBitfinex(t, map[string]string{
		"/v2/conf/pub:info:pair": `[[
			["BTCUSD",[null,null,null,"0.00006","2000.0",null,null,null,0.2,0.1]],
			["MATIC:USD",[null,null,null,"4.0","250000.0",null,null,null,0.3,0.15]],
			["TESTBTC:TESTUSD",[null,null,null,"0","0",null,null,null,0.3,0.15]]
		]]`,
	})

	pairs, err := b.GetTradingPairs(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, "btcusd", pairs[0].Symbol)
	assert.Equal(t, domain.Currency("btc"), pairs[0].Base)
	assert.Equal(t, domain.Currency("usd"), pairs[0].Quote)
	assert.True(t, pairs[0].MinOrderSize.Equal(decimal.RequireFromString("0.00006")))
	assert.True(t, pairs[0].MaxOrderSize.Equal(decimal.NewFromInt(2000)))

	assert.Equal(t, "matic:usd", pairs[1].Symbol)
	assert.Equal(t, domain.Currency("matic"), pairs[1].Base)
}

func TestBitfinex_GetTradingPairs_InvalidSymbol(t *testing.T) {
	b, _ := newTestBitfinex(t, map[string]string{
		"/v2/conf/pub:info:pair": `[[
			["BTCUSD",[null,null,null,"0.00006","2000.0",null,null,null,0.2,0.1]],
			["TOOLONG",[null,null,null,"1","2",null,null,null,0.2,0.1]]
		]]`,
	})

	pairs, err := b.GetTradingPairs(context.Background())
	require.Error(t, err)
	assert.Nil(t, pairs)
	assert.True(t, errors.Is(err, domain.ErrInvalidSymbol))
	assert.True(t, domain.IsRepoError(err))
}

func TestBitfinex_GetTickers(t *testing.T) {
	b, recorded := newTestBitfinex(t, map[string]string{
		"/v2/tickers": `[
			["tBTCUSD",27000,1.5,27001,2.1,-100,-0.0037,27000.5,1200.3,27500,26800],
			["fUSD",0.0001,0.0002,30,1000,0.0001,2,500,0,0,0.0002,0.0001,0.0003,null,null,100],
			["tMATIC:USD",0.55,100,0.56,200,0.01,0.02,0.555,1000,0.6,0.5]
		]`,
	})

	tickers, err := b.GetTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 2)
	assert.Equal(t, "symbols=ALL", (*recorded)[0].query)

	assert.Equal(t, "tbtcusd", tickers[0].Symbol)
	assert.True(t, tickers[0].LastPrice.Equal(decimal.RequireFromString("27000.5")))
	assert.Equal(t, "tmatic:usd", tickers[1].Symbol)
	assert.Equal(t, domain.Currency("matic"), tickers[1].Base)

	_, err = b.GetTickers(context.Background(), "tbtcusd", "tmatic:usd")
	require.NoError(t, err)
	assert.Equal(t, "symbols=tBTCUSD%2CtMATIC%3AUSD", (*recorded)[1].query)
}

func TestBitfinex_Transfer(t *testing.T) {
	b, recorded := newTestBitfinex(t, map[string]string{
		"/v2/auth/w/transfer": `[1568736745789,"acc_tf",null,null,[1568736745789,"margin","exchange",null,"USTF0","UST",null,5],null,"SUCCESS","5.0 Tether USDt transfered from Margin to Exchange"]`,
	})

	err := b.Transfer(context.Background(), domain.WalletTypeMargin, domain.WalletTypeExchange, "ustf0", "ust", decimal.NewFromInt(5))
	require.NoError(t, err)

	require.Len(t, *recorded, 1)
	body := (*recorded)[0].body
	assert.Equal(t, "margin", body["from"])
	assert.Equal(t, "exchange", body["to"])
	assert.Equal(t, "USTF0", body["currency"])
	assert.Equal(t, "UST", body["currency_to"])
	assert.Equal(t, "5", body["amount"])
}

func TestBitfinex_CreateOrder(t *testing.T) {
	b, recorded := newTestBitfinex(t, map[string]string{
		"/v2/auth/w/order/submit": `[1567590617.442,"on-req",null,null,[[30630788061,null,1567590617439,"tBTCUSD"]],null,"SUCCESS","Submitting 1 orders."]`,
	})

	err := b.CreateOrder(context.Background(), domain.OrderTypeExchangeMarket, "tbtcusd", decimal.RequireFromString("-0.1234567891"))
	require.NoError(t, err)

	body := (*recorded)[0].body
	assert.Equal(t, "EXCHANGE MARKET", body["type"])
	assert.Equal(t, "tBTCUSD", body["symbol"])
	assert.Equal(t, "-0.12345678", body["amount"])
}

func TestBitfinex_CreateOrderErrors(t *testing.T) {
	t.Run("error notification", func(t *testing.T) {
		b, _ := newTestBitfinex(t, map[string]string{
			"/v2/auth/w/order/submit": `[1567590617.442,"on-req",null,null,[],null,"ERROR","Invalid order: not enough exchange balance"]`,
		})

		err := b.CreateOrder(context.Background(), domain.OrderTypeExchangeMarket, "teth:usd", decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.True(t, domain.IsRepoError(err))
		assert.Contains(t, err.Error(), "not enough exchange balance")
	})

	t.Run("http error", func(t *testing.T) {
		b, _ := newTestBitfinex(t, nil)

		err := b.CreateOrder(context.Background(), domain.OrderTypeExchangeMarket, "teth:usd", decimal.NewFromInt(-1))
		require.Error(t, err)

		var repoErr *domain.RepoError
		require.ErrorAs(t, err, &repoErr)
		assert.Equal(t, http.StatusNotFound, repoErr.StatusCode)
		assert.Equal(t, "create order", repoErr.Op)
	})

	t.Run("amount below precision", func(t *testing.T) {
		b, recorded := newTestBitfinex(t, nil)

		err := b.CreateOrder(context.Background(), domain.OrderTypeExchangeMarket, "tbtcusd", decimal.RequireFromString("0.000000001"))
		require.Error(t, err)
		assert.Empty(t, *recorded)
	})
}

func TestNativeSymbol(t *testing.T) {
	assert.Equal(t, "tBTCUSD", nativeSymbol("tbtcusd"))
	assert.Equal(t, "tMATIC:USD", nativeSymbol("tmatic:usd"))
	assert.Equal(t, "tBTCUSD", nativeSymbol("tBTCUSD"))
	assert.Equal(t, "fUSD", nativeSymbol("fUSD"))
}
