package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohanmahajan/furnimart-backend/pkg/config"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

var (
	errKeyRequired    = errors.New("razorpay key id is required")
	errSecretRequired = errors.New("razorpay secret is required")
)

// GatewayOrder is the remote payment intent the customer completes
// client-side before the server-side verification callback.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// OrderCreator creates a remote payment intent for an amount in
// minor-currency units (paise).
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, receipt string) (*GatewayOrder, error)
}

// Client talks to the Razorpay Orders API over HTTP basic auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	secret     string
	currency   string
}

// NewClient validates the configured credentials and builds a client.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyRequired
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errSecretRequired
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}

	if logg != nil {
		logg.Info(ctx, "razorpay client initialized")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		keyID:      keyID,
		secret:     secret,
		currency:   currency,
	}, nil
}

// Secret returns the shared signing secret used for callback verification.
func (c *Client) Secret() string {
	if c == nil {
		return ""
	}
	return c.secret
}

// CreateOrder registers a payment intent with the gateway.
func (c *Client) CreateOrder(ctx context.Context, amountMinorUnits int64, receipt string) (*GatewayOrder, error) {
	if amountMinorUnits <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountMinorUnits)
	}

	payload, err := json.Marshal(map[string]any{
		"amount":   amountMinorUnits,
		"currency": c.currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var order GatewayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode gateway order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway order missing id")
	}
	return &order, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with the
// shared secret and compares it to the provided hex signature in constant
// time. Any mismatch or malformed input fails closed.
func VerifySignature(gatewayOrderID, gatewayPaymentID, signature, secret string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(expected)
	return hmac.Equal(provided, want)
}
