package payment

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vonix/internal/application/payment/gateway"
	"vonix/internal/shared/logger"
)

const kofiTestToken = "kofi-verification-token"

func encodeKofiBody(t *testing.T, payload map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	form := url.Values{}
	form.Set("data", string(data))
	return []byte(form.Encode())
}

func TestKofiAdapter_VerifySignature(t *testing.T) {
	adapter := NewKofiAdapter(kofiTestToken, logger.NewLogger())

	t.Run("matching token", func(t *testing.T) {
		body := encodeKofiBody(t, map[string]any{"verification_token": kofiTestToken})
		assert.True(t, adapter.VerifySignature(body, "", ""))
	})

	t.Run("wrong token", func(t *testing.T) {
		body := encodeKofiBody(t, map[string]any{"verification_token": "other"})
		assert.False(t, adapter.VerifySignature(body, "", ""))
	})

	t.Run("missing data field", func(t *testing.T) {
		assert.False(t, adapter.VerifySignature([]byte("foo=bar"), "", ""))
	})

	t.Run("unconfigured token always fails", func(t *testing.T) {
		bare := NewKofiAdapter("", logger.NewLogger())
		body := encodeKofiBody(t, map[string]any{"verification_token": ""})
		assert.False(t, bare.VerifySignature(body, "", ""))
	})
}

func TestKofiAdapter_ParseEvent(t *testing.T) {
	adapter := NewKofiAdapter(kofiTestToken, logger.NewLogger())

	t.Run("one-time donation", func(t *testing.T) {
		body := encodeKofiBody(t, map[string]any{
			"verification_token":  kofiTestToken,
			"message_id":          "msg_1",
			"timestamp":           "2026-08-30T12:00:00Z",
			"type":                "Donation",
			"from_name":           "Alex",
			"message":             "love the server",
			"amount":              "5.00",
			"email":               "alex@example.com",
			"currency":            "usd",
			"kofi_transaction_id": "txn_1",
		})

		event, err := adapter.ParseEvent(body)
		require.NoError(t, err)

		assert.Equal(t, gateway.EventPaymentCompleted, event.Kind)
		assert.Equal(t, "txn_1", event.PaymentID)
		assert.Equal(t, int64(500), event.AmountInCents)
		assert.Equal(t, "USD", event.Currency)
		assert.Equal(t, "Alex", event.DonorName)
		assert.Equal(t, "love the server", event.Message)
	})

	t.Run("subscription payment", func(t *testing.T) {
		body := encodeKofiBody(t, map[string]any{
			"verification_token":            kofiTestToken,
			"timestamp":                     "2026-08-30T12:00:00Z",
			"type":                          "Subscription",
			"amount":                        "10.00",
			"currency":                      "usd",
			"is_subscription_payment":       true,
			"is_first_subscription_payment": true,
			"kofi_transaction_id":           "txn_2",
		})

		event, err := adapter.ParseEvent(body)
		require.NoError(t, err)

		assert.Equal(t, gateway.EventSubscriptionRenewed, event.Kind)
		assert.True(t, event.FirstSubscriptionPayment)
		assert.Equal(t, int64(1000), event.AmountInCents)
	})

	t.Run("shop order ignored", func(t *testing.T) {
		body := encodeKofiBody(t, map[string]any{
			"verification_token": kofiTestToken,
			"timestamp":          "2026-08-30T12:00:00Z",
			"type":               "Shop Order",
			"amount":             "15.00",
		})

		event, err := adapter.ParseEvent(body)
		require.NoError(t, err)
		assert.Equal(t, gateway.EventIgnored, event.Kind)
	})

	t.Run("unparsable amount", func(t *testing.T) {
		body := encodeKofiBody(t, map[string]any{
			"verification_token": kofiTestToken,
			"timestamp":          "2026-08-30T12:00:00Z",
			"type":               "Donation",
			"amount":             "five dollars",
		})

		_, err := adapter.ParseEvent(body)
		assert.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := adapter.ParseEvent([]byte("data=notjson"))
		assert.Error(t, err)
	})
}

func TestParseKofiAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "3.00", want: 300},
		{in: "3", want: 300},
		{in: "3.5", want: 350},
		{in: "0.99", want: 99},
		{in: "10.129", want: 1012},
		{in: " 25.00 ", want: 2500},
		{in: ".50", want: 50},
		{in: "abc", wantErr: true},
		{in: "3.xy", wantErr: true},
		// Refund-style negatives are rejected outright; "-0.50" would
		// otherwise come back as +50 cents.
		{in: "-0.50", wantErr: true},
		{in: "-3.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseKofiAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
