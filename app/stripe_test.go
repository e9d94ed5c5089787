package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Mizuri0x/contentblast/app/config"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way stripe-go's webhook
// verifier expects it: an HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newTestPayments() *Payments {
	return NewPayments(config.StripeConfig{
		SecretKey:     "sk_test_key",
		WebhookSecret: testWebhookSecret,
	})
}

func TestStartCheckoutUnknownPlan(t *testing.T) {
	p := newTestPayments()

	_, err := p.StartCheckout("mega", "http://x/success", "http://x/pricing", "a@b.com")
	if !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("error = %v, want ErrUnknownPlan", err)
	}
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	p := newTestPayments()
	payload := []byte(`{"type": "checkout.session.completed", "data": {"object": {}}}`)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage header", "not-a-signature"},
		{"wrong secret", signPayload(payload, "whsec_other_secret")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.HandleNotification(payload, tc.header)
			if !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestHandleNotificationRejectsMalformedPayload(t *testing.T) {
	p := newTestPayments()
	payload := []byte(`this is not an event`)

	_, err := p.HandleNotification(payload, signPayload(payload, testWebhookSecret))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("error = %v, want ErrMalformedPayload", err)
	}
}

func TestHandleNotificationCheckoutCompleted(t *testing.T) {
	p := newTestPayments()
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"customer_email": "a@b.com",
				"metadata": {"plan_id": "pro", "repurposes": "200"}
			}
		}
	}`)

	out, err := p.HandleNotification(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("HandleNotification error = %v", err)
	}
	if out.Event != EventSubscriptionCreated {
		t.Fatalf("event = %q, want %q", out.Event, EventSubscriptionCreated)
	}
	if out.Email != "a@b.com" || out.PlanID != "pro" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestHandleNotificationFallsBackToCustomerDetails(t *testing.T) {
	p := newTestPayments()
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"customer_details": {"email": "details@b.com"},
				"metadata": {"plan_id": "starter"}
			}
		}
	}`)

	out, err := p.HandleNotification(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("HandleNotification error = %v", err)
	}
	if out.Email != "details@b.com" || out.PlanID != "starter" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestHandleNotificationSubscriptionDeleted(t *testing.T) {
	p := newTestPayments()
	payload := []byte(`{
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_123"}}
	}`)

	out, err := p.HandleNotification(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("HandleNotification error = %v", err)
	}
	if out.Event != EventSubscriptionCancelled {
		t.Fatalf("event = %q, want %q", out.Event, EventSubscriptionCancelled)
	}
}

func TestHandleNotificationUnknownEventIsNoop(t *testing.T) {
	p := newTestPayments()
	payload := []byte(`{
		"type": "invoice.paid",
		"data": {"object": {"id": "in_123"}}
	}`)

	out, err := p.HandleNotification(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("HandleNotification error = %v", err)
	}
	if out.Event != "invoice.paid" || out.Email != "" || out.PlanID != "" {
		t.Fatalf("outcome = %+v", out)
	}
}
