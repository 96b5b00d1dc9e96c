package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"tourbook/internal/pkg/logger"
)

// Session payment states as reported by the gateway.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

var (
	// ErrGatewayTransient covers network failures, rate limits and 5xx
	// responses. Callers may retry with backoff.
	ErrGatewayTransient = errors.New("payment gateway temporarily unavailable")
	// ErrGatewayRejected means the gateway permanently refused the request.
	// Retrying the same request will not help.
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)

const (
	defaultBaseURL = "https://api.stripe.com"
	retryAttempts  = 3
	retryBaseDelay = 500 * time.Millisecond
)

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    envOrDefault("STRIPE_BASE_URL", defaultBaseURL),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

type CheckoutSessionRequest struct {
	AmountMinorUnits int64
	Currency         string
	ProductName      string
	Description      string
	Metadata         map[string]string
	SuccessURL       string
	CancelURL        string
	ExpiresAt        time.Time
	// IdempotencyKey guards against duplicate session creation when a call is
	// retried after a transient failure.
	IdempotencyKey string
}

type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	AmountTotal     int64
	Currency        string
	PaymentIntentID string
	ExpiresAt       time.Time
}

type sessionPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	PaymentIntent string `json:"payment_intent"`
	ExpiresAt     int64  `json:"expires_at"`
}

type errorPayload struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Param   string `json:"param"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	if req.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", req.Description)
	}
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountMinorUnits, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	if !req.ExpiresAt.IsZero() {
		form.Set("expires_at", strconv.FormatInt(req.ExpiresAt.Unix(), 10))
	}
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var p sessionPayload
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, req.IdempotencyKey, &p); err != nil {
		return nil, err
	}
	return toSession(p), nil
}

func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var p sessionPayload
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, "", &p); err != nil {
		return nil, err
	}
	return toSession(p), nil
}

func toSession(p sessionPayload) *CheckoutSession {
	return &CheckoutSession{
		ID:              p.ID,
		URL:             p.URL,
		PaymentStatus:   p.PaymentStatus,
		AmountTotal:     p.AmountTotal,
		Currency:        p.Currency,
		PaymentIntentID: p.PaymentIntent,
		ExpiresAt:       time.Unix(p.ExpiresAt, 0).UTC(),
	}
}

// do performs one API call, retrying transient failures under the same
// idempotency key. Rejections are never retried.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out interface{}) error {
	delay := retryBaseDelay
	var lastErr error

	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrGatewayTransient, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		err := c.doOnce(ctx, method, path, form, idempotencyKey, out)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrGatewayTransient) {
			return err
		}
		lastErr = err
		logger.ErrorLogger.Errorf("stripe request failed (attempt %d/%d): %v", attempt+1, retryAttempts, err)
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayRejected, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayTransient, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: malformed response: %v", ErrGatewayTransient, err)
		}
		return nil
	}

	var ep errorPayload
	_ = json.Unmarshal(raw, &ep)
	msg := ep.Error.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 || ep.Error.Type == "api_error" {
		return fmt.Errorf("%w: %s (status %d)", ErrGatewayTransient, msg, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s (status %d)", ErrGatewayRejected, msg, resp.StatusCode)
}
