package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/duster/config"
	"github.com/vadiminshakov/duster/internal/domain"
)

func TestValidateMaxValue(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"10", false},
		{"0", false},
		{" 2.5 ", false},
		{"-1", true},
		{"ten", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateMaxValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTargets(t *testing.T) {
	assert.NoError(t, validateTargets("btc, usd"))
	assert.Error(t, validateTargets(" , "))
}

func TestAnswers_Config(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		conf, err := defaultAnswers().config()
		require.NoError(t, err)

		d := config.Default()
		assert.Equal(t, d.Targets, conf.Targets)
		assert.Equal(t, d.Final, conf.Final)
		assert.True(t, d.MaxValue.Equal(conf.MaxValue))
	})

	t.Run("custom", func(t *testing.T) {
		a := defaultAnswers()
		a.platform = config.PlatformBinance
		a.targets = "USDT, BTC"
		a.ignored = "bnb"
		a.maxValue = "5"
		a.valueCurrency = "usdt"
		a.intermediate = ""

		conf, err := a.config()
		require.NoError(t, err)

		assert.Equal(t, config.PlatformBinance, conf.Platform)
		assert.Equal(t, []domain.Currency{"usdt", "btc"}, conf.Targets)
		assert.Equal(t, []domain.Currency{"bnb"}, conf.Ignored)
		assert.True(t, decimal.NewFromInt(5).Equal(conf.MaxValue))
		assert.Empty(t, conf.Intermediate)
	})

	t.Run("invalid max value", func(t *testing.T) {
		a := defaultAnswers()
		a.maxValue = "lots"

		_, err := a.config()
		assert.Error(t, err)
	})
}

func TestApprover_Approve(t *testing.T) {
	orders := []domain.Order{
		{Type: domain.OrderTypeExchangeMarket, TradingSymbol: "tethusd", Amount: decimal.RequireFromString("-0.5")},
		{Type: domain.OrderTypeExchangeMarket, TradingSymbol: "tbtcusd", Amount: decimal.RequireFromString("0.004")},
	}

	t.Run("passes answer through", func(t *testing.T) {
		var gotTitle, gotDescription string
		a := &Approver{confirm: func(_ context.Context, title, description string) (bool, error) {
			gotTitle, gotDescription = title, description
			return true, nil
		}}

		ok, err := a.Approve(context.Background(), orders)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Execute 2 order(s)?", gotTitle)
		assert.Contains(t, gotDescription, "sell tethusd")
		assert.Contains(t, gotDescription, "0.5")
		assert.Contains(t, gotDescription, "buy  tbtcusd")
	})

	t.Run("prompt error", func(t *testing.T) {
		a := &Approver{confirm: func(context.Context, string, string) (bool, error) {
			return false, errors.New("no tty")
		}}

		ok, err := a.Approve(context.Background(), orders)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("empty batch", func(t *testing.T) {
		a := &Approver{confirm: func(context.Context, string, string) (bool, error) {
			t.Fatal("prompt must not be shown")
			return false, nil
		}}

		ok, err := a.Approve(context.Background(), nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
