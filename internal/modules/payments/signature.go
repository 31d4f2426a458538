package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const SignatureHeader = "X-Signature"

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret, body []byte) string {
	m := hmac.New(sha256.New, secret)
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}

// VerifySignature checks header (hex, optionally "sha256="-prefixed) against
// the raw body in constant time.
func VerifySignature(secret, body []byte, header string) error {
	if len(secret) == 0 {
		return ErrInvalidSignature
	}
	h := strings.TrimSpace(header)
	h = strings.TrimPrefix(h, "sha256=")
	got, err := hex.DecodeString(h)
	if err != nil || len(got) != sha256.Size {
		return ErrInvalidSignature
	}

	m := hmac.New(sha256.New, secret)
	m.Write(body)
	if !hmac.Equal(got, m.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

type WebhookEvent struct {
	Provider          string `json:"provider"`
	ProviderPaymentID string `json:"provider_payment_id"`
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	AmountPaise       int64  `json:"amount_paise"`
	Method            string `json:"method"`
}

// ParseWebhook decodes and validates a verified body.
func ParseWebhook(body []byte) (WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return WebhookEvent{}, ErrInvalidPayload.WithCause(err)
	}

	fields := map[string]string{}
	if strings.TrimSpace(ev.Provider) == "" {
		fields["provider"] = "required"
	}
	if strings.TrimSpace(ev.ProviderPaymentID) == "" {
		fields["provider_payment_id"] = "required"
	}
	if strings.TrimSpace(ev.OrderID) == "" {
		fields["order_id"] = "required"
	}
	switch ev.Status {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded:
	default:
		fields["status"] = "must be one of pending, paid, failed, refunded"
	}
	if ev.AmountPaise < 0 {
		fields["amount_paise"] = "must not be negative"
	}
	if len(fields) > 0 {
		return WebhookEvent{}, ErrInvalidPayload.WithFields(fields)
	}
	return ev, nil
}
