// Package app wires the HTTP routes.
package app

import (
	"strings"
	"time"

	"github.com/Mizuri0x/contentblast/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router builds the HTTP router over the wired application.
func (a *App) Router() *gin.Engine {
	router := gin.Default()
	// Auth rides on a cookie, so the exact frontend origin must be allowed
	// with credentials; a wildcard origin would make browsers drop the cookie
	// on cross-origin calls.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{strings.TrimRight(a.cfg.Stripe.FrontendURL, "/")},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	api.GET("/health", a.Health)
	api.GET("/plans", a.GetPlans)
	api.POST("/register", a.Register)
	api.POST("/login", a.Login)
	api.POST("/logout", a.Logout)
	api.POST("/checkout", a.CreateCheckout)
	api.POST("/webhook", a.Webhook)

	// Repurposing works anonymously; a valid session just meters usage.
	api.POST("/repurpose",
		auth.Middleware(a.sessions, auth.MiddlewareConfig{Optional: true}),
		a.Repurpose,
	)

	api.GET("/me",
		auth.Middleware(a.sessions, auth.MiddlewareConfig{}),
		a.Me,
	)

	return router
}
