package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// RazorpayConfig holds API credentials.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// RazorpayClient creates orders and verifies checkout signatures through
// the Razorpay SDK.
type RazorpayClient struct {
	keyID     string
	keySecret string
	api       *razorpay.Client
	logger    *logging.Logger
}

// NewRazorpayClient builds a client; BaseURL defaults to the live API.
func NewRazorpayClient(cfg RazorpayConfig, logger *logging.Logger) *RazorpayClient {
	if logger == nil {
		logger = logging.Default()
	}
	api := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		api.Request.BaseURL = base
	}
	return &RazorpayClient{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		api:       api,
		logger:    logger,
	}
}

// VerifySignature checks hex(HMAC-SHA256(secret, order_id|payment_id)).
// A mismatch returns ErrSignatureMismatch.
func (c *RazorpayClient) VerifySignature(_ context.Context, orderID, paymentID, signature string) error {
	if c == nil || c.keySecret == "" {
		return ErrGatewayNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrSignatureMismatch
	}
	attrs := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !utils.VerifyPaymentSignature(attrs, strings.ToLower(signature), c.keySecret) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign computes the checkout signature for an order/payment pair, the
// value the checkout widget hands back to the browser.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// OrderRequest is the amount in major units (rupees) plus currency.
type OrderRequest struct {
	Amount   float64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the gateway's order record. Amount is in minor units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status"`
}

// CreateOrder registers an order with Razorpay.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil || c.keyID == "" || c.keySecret == "" {
		return nil, ErrGatewayNotConfigured
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	payload := map[string]interface{}{
		"amount":   ToMinorUnits(req.Amount),
		"currency": currency,
	}
	if req.Receipt != "" {
		payload["receipt"] = req.Receipt
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		payload["notes"] = notes
	}

	body, err := c.api.Order.Create(payload, nil)
	if err != nil {
		c.logger.Error("razorpay order creation failed", "error", err, "currency", currency)
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}
	order := orderFromBody(body)
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay: order response missing id")
	}
	c.logger.Info("razorpay order created", "order_id", order.ID, "amount", order.Amount, "currency", order.Currency)
	return order, nil
}

func orderFromBody(body map[string]interface{}) *Order {
	str := func(key string) string {
		s, _ := body[key].(string)
		return s
	}
	order := &Order{
		ID:       str("id"),
		Currency: str("currency"),
		Receipt:  str("receipt"),
		Status:   str("status"),
	}
	switch v := body["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}
	return order
}

// ToMinorUnits converts rupees to paise. Truncation matches the gateway SDKs.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Trunc(amount * 100))
}

var _ Gateway = (*RazorpayClient)(nil)
