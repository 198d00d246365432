package clients

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/duster/pkg/retrier"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBitfinexURL     = "https://api.bitfinex.com/"
	defaultBitfinexTimeout = 15 * time.Second
	// public REST endpoints allow 90 requests per minute
	defaultBitfinexRate = 90

	apiPathPrefix = "/api/"
)

// BitfinexConfig configures the Bitfinex REST client.
type BitfinexConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	// RequestsPerMinute throttles all requests. Zero uses the default.
	RequestsPerMinute int
	// ReadRetries retries failed public and authenticated read requests.
	ReadRetries int
	// RetryInterval delay before the first retry. Zero uses the retrier default.
	RetryInterval time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// BitfinexClient signs and sends Bitfinex v2 REST requests.
type BitfinexClient struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
	limiter   *rate.Limiter
	retrier   *retrier.Retrier
	l         *zap.Logger

	nonceMu   sync.Mutex
	lastNonce int64
	now       func() time.Time
}

// HTTPError non-2xx response without a Bitfinex error payload.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("bitfinex http %d", e.StatusCode)
	}
	return fmt.Sprintf("bitfinex http %d: %s", e.StatusCode, b)
}

// APIError error payload of the form ["error", code, message].
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitfinex error %d: %s", e.Code, e.Message)
}

// NewBitfinexClient creates a Bitfinex REST client.
func NewBitfinexClient(cfg BitfinexConfig) *BitfinexClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBitfinexURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultBitfinexTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultBitfinexRate
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	retryOpts := []retrier.Option{
		retrier.WithMaxRetries(cfg.ReadRetries),
		retrier.WithRetryIf(isTransient),
		retrier.WithOnRetry(func(attempt int, err error) {
			l.Warn("retrying bitfinex request", zap.Int("attempt", attempt), zap.Error(err))
		}),
	}
	if cfg.RetryInterval > 0 {
		retryOpts = append(retryOpts, retrier.WithInitialInterval(cfg.RetryInterval))
	}

	return &BitfinexClient{
		baseURL:   baseURL,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		apiSecret: strings.TrimSpace(cfg.APISecret),
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		retrier:   retrier.New(retryOpts...),
		l:         l,
		now:       time.Now,
	}
}

// GetPublic performs an unauthenticated GET and decodes the JSON response into out.
func (c *BitfinexClient) GetPublic(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return c.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return retrier.Permanent(errors.Wrap(err, "build request"))
		}
		req.Header.Set("Accept", "application/json")
		return c.do(req, out)
	})
}

// ReadAuthenticated performs a signed request for an idempotent read, retrying transient failures.
func (c *BitfinexClient) ReadAuthenticated(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.PostAuthenticated(ctx, path, body, out)
	})
}

// PostAuthenticated performs a single signed POST. Write endpoints must not be retried.
func (c *BitfinexClient) PostAuthenticated(ctx context.Context, path string, body interface{}, out interface{}) error {
	if c.apiKey == "" || c.apiSecret == "" {
		return retrier.Permanent(errors.New("bitfinex api key and secret are required"))
	}

	path = strings.TrimLeft(path, "/")
	payload := []byte("{}")
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return retrier.Permanent(errors.Wrap(err, "marshal request body"))
		}
	}

	nonce := c.nextNonce()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return retrier.Permanent(errors.Wrap(err, "build request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("bfx-nonce", nonce)
	req.Header.Set("bfx-apikey", c.apiKey)
	req.Header.Set("bfx-signature", Sign(c.apiSecret, path, nonce, payload))

	return c.do(req, out)
}

func (c *BitfinexClient) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	c.l.Debug("bitfinex request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if apiErr := parseAPIError(res.StatusCode, body); apiErr != nil {
		return apiErr
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return retrier.Permanent(errors.Wrapf(err, "decode response of %s", req.URL.Path))
	}
	return nil
}

// Sign returns the hex HMAC-SHA384 signature of an authenticated request.
func Sign(secret, path, nonce string, body []byte) string {
	mac := hmac.New(sha512.New384, []byte(secret))
	mac.Write([]byte(apiPathPrefix + path + nonce))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// nextNonce returns a strictly increasing nonce based on tenths of milliseconds.
func (c *BitfinexClient) nextNonce() string {
	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	n := c.now().UnixNano() / int64(100*time.Microsecond)
	if n <= c.lastNonce {
		n = c.lastNonce + 1
	}
	c.lastNonce = n
	return strconv.FormatInt(n, 10)
}

func parseAPIError(status int, body []byte) *APIError {
	trimmed := bytes.TrimSpace(body)
	if !bytes.HasPrefix(trimmed, []byte("[\"error\"")) {
		return nil
	}

	var fields []json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || len(fields) < 3 {
		return &APIError{StatusCode: status, Message: string(trimmed)}
	}

	apiErr := &APIError{StatusCode: status}
	_ = json.Unmarshal(fields[1], &apiErr.Code)
	if err := json.Unmarshal(fields[2], &apiErr.Message); err != nil {
		apiErr.Message = string(fields[2])
	}
	return apiErr
}

func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
