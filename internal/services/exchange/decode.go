package exchange

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/symbol"
)

// positions in Bitfinex array payloads
const (
	walletTypeIdx      = 0
	walletCurrencyIdx  = 1
	walletAvailableIdx = 4

	pairInfoMinIdx = 3
	pairInfoMaxIdx = 4

	tickerLastPriceIdx = 7

	notificationStatusIdx = 6
	notificationTextIdx   = 7

	statusError = "ERROR"
)

var errMalformed = errors.New("malformed payload")

// decodeWallet decodes [type, currency, balance, unsettled, available, ...].
func decodeWallet(raw json.RawMessage) (domain.Wallet, error) {
	var fields []json.RawMessage
	if err := unmarshal(raw, &fields); err != nil {
		return domain.Wallet{}, errors.Wrap(err, "wallet")
	}
	if len(fields) <= walletAvailableIdx {
		return domain.Wallet{}, errors.Wrapf(errMalformed, "wallet has %d fields", len(fields))
	}

	var walletType, currency string
	if err := unmarshal(fields[walletTypeIdx], &walletType); err != nil {
		return domain.Wallet{}, errors.Wrap(err, "wallet type")
	}
	if err := unmarshal(fields[walletCurrencyIdx], &currency); err != nil {
		return domain.Wallet{}, errors.Wrap(err, "wallet currency")
	}

	available, err := decodeDecimal(fields[walletAvailableIdx])
	if err != nil {
		return domain.Wallet{}, errors.Wrapf(err, "available balance of %s %s", walletType, currency)
	}

	return domain.NewWallet(walletType, currency, available), nil
}

// decodePair decodes [symbol, [_, _, _, min, max, ...]].
func decodePair(raw json.RawMessage) (domain.TradingPair, error) {
	var fields []json.RawMessage
	if err := unmarshal(raw, &fields); err != nil {
		return domain.TradingPair{}, errors.Wrap(err, "pair")
	}
	if len(fields) < 2 {
		return domain.TradingPair{}, errors.Wrapf(errMalformed, "pair has %d fields", len(fields))
	}

	var pairSymbol string
	if err := unmarshal(fields[0], &pairSymbol); err != nil {
		return domain.TradingPair{}, errors.Wrap(err, "pair symbol")
	}

	var info []json.RawMessage
	if err := unmarshal(fields[1], &info); err != nil {
		return domain.TradingPair{}, errors.Wrapf(err, "pair %s info", pairSymbol)
	}
	if len(info) <= pairInfoMaxIdx {
		return domain.TradingPair{}, errors.Wrapf(errMalformed, "pair %s info has %d fields", pairSymbol, len(info))
	}

	minSize, err := decodeDecimal(info[pairInfoMinIdx])
	if err != nil {
		return domain.TradingPair{}, errors.Wrapf(err, "pair %s min order size", pairSymbol)
	}
	maxSize, err := decodeDecimal(info[pairInfoMaxIdx])
	if err != nil {
		return domain.TradingPair{}, errors.Wrapf(err, "pair %s max order size", pairSymbol)
	}

	base, quote, err := symbol.ParsePair(pairSymbol)
	if err != nil {
		return domain.TradingPair{}, err
	}

	return domain.NewTradingPair(pairSymbol, base, quote, minSize, maxSize)
}

// decodeTicker decodes a trading ticker [SYMBOL, BID, BID_SIZE, ASK, ASK_SIZE, CHANGE, CHANGE_PERC, LAST_PRICE, ...].
func decodeTicker(fields []json.RawMessage) (domain.Ticker, error) {
	if len(fields) <= tickerLastPriceIdx {
		return domain.Ticker{}, errors.Wrapf(errMalformed, "ticker has %d fields", len(fields))
	}

	var tickerSymbol string
	if err := unmarshal(fields[0], &tickerSymbol); err != nil {
		return domain.Ticker{}, errors.Wrap(err, "ticker symbol")
	}

	base, quote, err := symbol.ParseTickerSymbol(tickerSymbol)
	if err != nil {
		return domain.Ticker{}, err
	}

	lastPrice, err := decodeDecimal(fields[tickerLastPriceIdx])
	if err != nil {
		return domain.Ticker{}, errors.Wrapf(err, "ticker %s last price", tickerSymbol)
	}

	return domain.NewTicker(tickerSymbol, base, quote, lastPrice), nil
}

// tickerSymbolOf returns the symbol of a raw ticker without decoding the rest.
func tickerSymbolOf(fields []json.RawMessage) string {
	if len(fields) == 0 {
		return ""
	}
	var s string
	if err := unmarshal(fields[0], &s); err != nil {
		return ""
	}
	return s
}

// notificationError returns an error when a write notification reports the ERROR status.
func notificationError(raw json.RawMessage) error {
	var fields []json.RawMessage
	if err := unmarshal(raw, &fields); err != nil || len(fields) <= notificationTextIdx {
		return nil
	}

	var status, text string
	_ = unmarshal(fields[notificationStatusIdx], &status)
	_ = unmarshal(fields[notificationTextIdx], &text)
	if !strings.EqualFold(status, statusError) {
		return nil
	}
	if text == "" {
		text = status
	}
	return errors.New(text)
}

// decodeDecimal accepts JSON numbers, numeric strings and null (zero).
func decodeDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}

	var n json.Number
	if err := unmarshal(trimmed, &n); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(n.String())
}

func unmarshal(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
