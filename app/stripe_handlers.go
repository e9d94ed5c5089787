// Package app exposes the checkout and webhook endpoints of the billing
// bridge.
package app

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Mizuri0x/contentblast/app/models"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
	Email  string `json:"email"`
}

// CreateCheckout starts a hosted checkout for a catalog plan.
func (a *App) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	frontendURL := strings.TrimRight(a.cfg.Stripe.FrontendURL, "/")
	out, err := a.payments.StartCheckout(
		req.PlanID,
		frontendURL+"/success",
		frontendURL+"/pricing",
		NormalizeEmail(req.Email),
	)
	if err != nil {
		if errors.Is(err, ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		log.Printf("stripe checkout failed plan=%s err=%v", req.PlanID, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"session_id":   out.SessionID,
		"checkout_url": out.CheckoutURL,
	})
}

// Webhook verifies provider notifications and applies plan activations to
// the ledger.
func (a *App) Webhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		log.Printf("stripe webhook read failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}

	outcome, err := a.payments.HandleNotification(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Printf("stripe webhook rejected err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch outcome.Event {
	case EventSubscriptionCreated:
		if outcome.Email == "" || outcome.PlanID == "" {
			log.Printf("stripe activation missing identity email=%q plan=%q", outcome.Email, outcome.PlanID)
			break
		}
		_, err := a.accounts.ChangePlan(c.Request.Context(), NormalizeEmail(outcome.Email), models.Plan(outcome.PlanID))
		if errors.Is(err, ErrAccountNotFound) {
			// Purchases can precede registration; the provider payload was
			// valid, so acknowledge and leave reconciliation to support.
			log.Printf("stripe activation for unknown account email=%s plan=%s", outcome.Email, outcome.PlanID)
		} else if err != nil {
			log.Printf("stripe plan activation failed email=%s plan=%s err=%v", outcome.Email, outcome.PlanID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to activate subscription"})
			return
		}
	case EventSubscriptionCancelled:
		// The cancellation event carries only the provider's customer id,
		// which the ledger does not track; log it for reconciliation.
		log.Printf("stripe subscription cancelled")
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"event":          outcome.Event,
		"customer_email": outcome.Email,
		"plan_id":        outcome.PlanID,
	})
}
