package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/duster/config"
	"github.com/vadiminshakov/duster/internal/clients"
	"github.com/vadiminshakov/duster/internal/services/exchange"
)

// NewClient creates the exchange client selected by conf.Platform.
func NewClient(conf config.Config, logger *zap.Logger) (any, error) {
	switch conf.Platform {
	case config.PlatformBitfinex:
		return clients.NewBitfinexClient(clients.BitfinexConfig{
			BaseURL:           conf.BaseURL,
			APIKey:            conf.APIKey,
			APISecret:         conf.APISecret,
			RequestsPerMinute: conf.RequestsPerMinute,
			ReadRetries:       conf.ReadRetries,
			Logger:            logger,
		}), nil
	case config.PlatformBinance:
		return clients.NewBinanceClient(conf.APIKey, conf.APISecret, conf.BaseURL), nil
	case config.PlatformBybit:
		return clients.NewBybitClient(conf.APIKey, conf.APISecret, conf.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", conf.Platform)
	}
}

// NewRepository creates the repository for a client returned by NewClient.
// This is the single point of truth for dispatching to platform-specific implementations.
func NewRepository(client any, dryRun bool, logger *zap.Logger) (exchange.Repository, error) {
	var repo exchange.Repository
	switch c := client.(type) {
	case *clients.BitfinexClient:
		repo = exchange.NewBitfinex(c, logger)
	case *binance.Client:
		repo = exchange.NewBinance(c, logger)
	case *bybit.Client:
		repo = exchange.NewBybit(c, logger)
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}

	if !dryRun {
		return repo, nil
	}

	sim, err := exchange.NewSimulate(repo, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create simulate repository")
	}
	return sim, nil
}
