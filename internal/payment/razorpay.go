// Package payment talks to the Razorpay orders API and verifies the
// signature the gateway hands back after the buyer completes payment.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// ErrVerificationFailed means the claimed signature did not match the
// recomputed one. Nothing is persisted when this is returned.
var ErrVerificationFailed = errors.New("payment verification failed")

type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is for tests pointing at a stub gateway.
func NewClientWithBaseURL(keyID, keySecret, baseURL string) *Client {
	c := NewClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

// KeyID is exposed so checkout responses can carry the public key the
// frontend needs to open the payment widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// GatewayOrder is the provider-side staged transaction. Amount is in the
// currency's smallest unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder stages a gateway order for the given amount. The receipt is a
// fresh ULID so retries never collide.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  ulid.Make().String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encoding gateway order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building gateway request")
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("gateway returned %d: %s", resp.StatusCode, msg)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, errors.Wrap(err, "decoding gateway order")
	}
	return &order, nil
}

// Sign computes the hex HMAC-SHA256 over "orderID|paymentID" with the given
// secret. Deterministic for identical inputs.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature and compares it byte-for-byte
// against the claimed one.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	expected := Sign(c.keySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrVerificationFailed
	}
	return nil
}
