package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignDeterministic(t *testing.T) {
	a := Sign("secret", "order_1", "pay_1")
	b := Sign("secret", "order_1", "pay_1")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "hex-encoded SHA-256")

	// Any input change produces a different signature.
	assert.NotEqual(t, a, Sign("secret", "order_2", "pay_1"))
	assert.NotEqual(t, a, Sign("secret", "order_1", "pay_2"))
	assert.NotEqual(t, a, Sign("other", "order_1", "pay_1"))
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("key", "secret")
	sig := Sign("secret", "order_1", "pay_1")

	require.NoError(t, c.VerifySignature("order_1", "pay_1", sig))
}

func TestVerifySignatureSingleByteMutation(t *testing.T) {
	c := NewClient("key", "secret")
	sig := Sign("secret", "order_1", "pay_1")

	for i := range sig {
		mutated := []byte(sig)
		mutated[i] ^= 0x01
		err := c.VerifySignature("order_1", "pay_1", string(mutated))
		assert.ErrorIs(t, err, ErrVerificationFailed, "mutation at byte %d must fail", i)
	}
}

func TestVerifySignatureWrongLength(t *testing.T) {
	c := NewClient("key", "secret")
	assert.ErrorIs(t, c.VerifySignature("order_1", "pay_1", ""), ErrVerificationFailed)
	assert.ErrorIs(t, c.VerifySignature("order_1", "pay_1", "deadbeef"), ErrVerificationFailed)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(25000), payload["amount"])
		assert.Equal(t, "INR", payload["currency"])
		assert.NotEmpty(t, payload["receipt"])

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_test123",
			Amount:   25000,
			Currency: "INR",
			Receipt:  payload["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key_id", "key_secret", srv.URL)
	order, err := c.CreateOrder(context.Background(), 25000, "INR")
	require.NoError(t, err)
	assert.Equal(t, "order_test123", order.ID)
	assert.Equal(t, int64(25000), order.Amount)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key_id", "key_secret", srv.URL)
	_, err := c.CreateOrder(context.Background(), 100, "INR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
