// Package app exposes the content repurposing endpoint with usage metering.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Mizuri0x/contentblast/app/models"
	"github.com/Mizuri0x/contentblast/auth"

	"github.com/gin-gonic/gin"
)

// backendCallTimeout bounds the generation call; the rest of the request is
// fast local work.
const backendCallTimeout = 60 * time.Second

type repurposeRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type repurposeResponse struct {
	models.RepurposeResult
	Success             bool                `json:"success"`
	TokensUsed          int                 `json:"tokens_used"`
	CostEstimate        models.CostEstimate `json:"cost_estimate"`
	RepurposesRemaining *int                `json:"repurposes_remaining,omitempty"`
}

// Repurpose transforms submitted content into per-channel outputs. It works
// for anonymous callers; authenticated callers spend one credit per success.
func (a *App) Repurpose(c *gin.Context) {
	var req repurposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	// The bounds count characters, not bytes, so multibyte content is not
	// short-changed.
	if utf8.RuneCountInString(strings.TrimSpace(req.Content)) < MinContentLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "content must be at least 50 characters long",
		})
		return
	}
	if utf8.RuneCountInString(req.Content) > MaxContentLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "content must be less than 10,000 characters",
		})
		return
	}

	email, authed := auth.EmailFromContext(c.Request.Context())

	// Admission check only; the authoritative check runs again inside
	// ConsumeCredit so a rejected spend never reaches the counter.
	if authed {
		user, err := a.accounts.Get(c.Request.Context(), email)
		if err != nil {
			log.Printf("repurpose user lookup failed email=%s err=%v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load user"})
			return
		}
		if user.RepurposesLimit > 0 && user.RepurposesUsed >= user.RepurposesLimit {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   QuotaError{Limit: user.RepurposesLimit, Used: user.RepurposesUsed}.Error(),
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), backendCallTimeout)
	defer cancel()

	result, tokens, err := a.repurposer.Repurpose(ctx, req.Content, req.ContentType)
	if err != nil {
		status := http.StatusInternalServerError
		var cfgErr ConfigError
		var malformed MalformedResponseError
		switch {
		case errors.As(err, &cfgErr):
			log.Printf("repurpose misconfigured: %v", err)
		case errors.As(err, &malformed):
			log.Printf("repurpose unparseable backend output err=%v raw_len=%d", malformed.Err, len(malformed.Raw))
		case errors.Is(err, ErrBackendTimeout):
			status = http.StatusGatewayTimeout
		default:
			status = http.StatusBadGateway
			log.Printf("repurpose backend call failed: %v", err)
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp := repurposeResponse{
		RepurposeResult: result,
		Success:         true,
		TokensUsed:      tokens,
		CostEstimate:    a.repurposer.EstimateCost(req.Content),
	}

	if authed {
		remaining, err := a.accounts.ConsumeCredit(c.Request.Context(), email)
		if err != nil {
			var qerr QuotaError
			if errors.As(err, &qerr) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "error": qerr.Error()})
				return
			}
			log.Printf("consume credit failed email=%s err=%v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record usage"})
			return
		}
		resp.RepurposesRemaining = &remaining
	}

	c.JSON(http.StatusOK, resp)
}
