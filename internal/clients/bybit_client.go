package clients

import (
	"strings"

	"github.com/hirokisan/bybit/v2"
)

// NewBybitClient creates an authenticated Bybit client. An empty baseURL keeps the mainnet endpoint.
func NewBybitClient(apiKey, apiSecret, baseURL string) *bybit.Client {
	client := bybit.NewClient().WithAuth(apiKey, apiSecret)
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		client = client.WithBaseURL(baseURL)
	}
	return client
}
