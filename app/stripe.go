// Package app bridges plan purchases to Stripe Checkout and reconciles its
// webhook notifications.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Mizuri0x/contentblast/app/config"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Payments drives the hosted checkout flow for plan purchases and verifies
// provider notifications.
type Payments struct {
	webhookSecret string
}

// NewPayments wires the Stripe API key and returns the billing bridge.
func NewPayments(cfg config.StripeConfig) *Payments {
	stripe.Key = cfg.SecretKey
	return &Payments{webhookSecret: cfg.WebhookSecret}
}

// Checkout identifies a started hosted-checkout transaction.
type Checkout struct {
	SessionID   string
	CheckoutURL string
}

// Outcome describes the business effect of a verified webhook event.
type Outcome struct {
	Event  string
	Email  string
	PlanID string
}

const (
	EventSubscriptionCreated   = "subscription_created"
	EventSubscriptionCancelled = "subscription_cancelled"
)

// StartCheckout creates a recurring-monthly checkout session for a catalog
// plan. The session is tagged with the plan id and its quota so the
// completion notification is self-describing.
func (p *Payments) StartCheckout(planID, successURL, cancelURL, email string) (Checkout, error) {
	spec, ok := Plans[planID]
	if !ok {
		return Checkout{}, ErrUnknownPlan
	}

	description := fmt.Sprintf("%d repurposes per month", spec.Repurposes)
	if spec.Repurposes < 0 {
		description = "Unlimited repurposes"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("ContentBlast " + spec.Name),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(spec.PriceCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(cancelURL),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("plan_id", planID)
	params.AddMetadata("repurposes", strconv.Itoa(spec.Repurposes))

	sess, err := session.New(params)
	if err != nil {
		return Checkout{}, ProviderError{Err: err}
	}
	return Checkout{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

// HandleNotification verifies and interprets a webhook payload. Signature
// and parse failures are rejected before any business logic runs.
// Unrecognized event types are acknowledged no-ops.
func (p *Payments) HandleNotification(payload []byte, sigHeader string) (Outcome, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		p.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		if errors.Is(err, webhook.ErrNotSigned) ||
			errors.Is(err, webhook.ErrInvalidHeader) ||
			errors.Is(err, webhook.ErrNoValidSignature) ||
			errors.Is(err, webhook.ErrTooOld) {
			return Outcome{}, ErrInvalidSignature
		}
		return Outcome{}, ErrMalformedPayload
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return Outcome{}, ErrMalformedPayload
		}
		email := sess.CustomerEmail
		if email == "" && sess.CustomerDetails != nil {
			email = sess.CustomerDetails.Email
		}
		return Outcome{
			Event:  EventSubscriptionCreated,
			Email:  email,
			PlanID: sess.Metadata["plan_id"],
		}, nil
	case "customer.subscription.deleted":
		return Outcome{Event: EventSubscriptionCancelled}, nil
	default:
		return Outcome{Event: string(event.Type)}, nil
	}
}
