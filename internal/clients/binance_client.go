package clients

import (
	"strings"

	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient creates a Binance client. An empty baseURL keeps the production endpoint.
func NewBinanceClient(apiKey, apiSecret, baseURL string) *binance.Client {
	client := binance.NewClient(apiKey, apiSecret)
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		client.BaseURL = baseURL
	}
	return client
}
