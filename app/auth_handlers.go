// Package app provides public health and account/session endpoints.
package app

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Mizuri0x/contentblast/auth"

	"github.com/gin-gonic/gin"
)

// Health is a public liveness endpoint.
func (a *App) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ContentBlast",
	})
}

// GetPlans returns the static purchasable plan catalog.
func (a *App) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, Plans)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates an account and logs the new user straight in.
func (a *App) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	user, err := a.accounts.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var verr ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error()})
		case errors.Is(err, ErrDuplicateAccount):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			log.Printf("register failed email=%s err=%v", NormalizeEmail(req.Email), err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create account"})
		}
		return
	}

	if err := a.startSession(c, user.Email); err != nil {
		log.Printf("register session failed email=%s err=%v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "account created successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials, stamps last_login and sets the session cookie.
func (a *App) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	user, err := a.accounts.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		log.Printf("login failed email=%s err=%v", NormalizeEmail(req.Email), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to log in"})
		return
	}

	if err := a.accounts.RecordLogin(c.Request.Context(), user.Email); err != nil {
		// Not fatal for the login itself.
		log.Printf("record login failed email=%s err=%v", user.Email, err)
	}

	if err := a.startSession(c, user.Email); err != nil {
		log.Printf("login session failed email=%s err=%v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Summary()})
}

// Logout destroys the session and clears the cookie. Always succeeds.
func (a *App) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.SessionCookie); err == nil && token != "" {
		if err := a.sessions.Destroy(c.Request.Context(), token); err != nil {
			log.Printf("logout destroy failed err=%v", err)
		}
	}
	a.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the live user record for the authenticated session. Usage
// counters are always read fresh from the ledger.
func (a *App) Me(c *gin.Context) {
	email, ok := auth.EmailFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing session"})
		return
	}

	user, err := a.accounts.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		log.Printf("me lookup failed email=%s err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Summary()})
}

func (a *App) startSession(c *gin.Context, email string) error {
	token, err := a.sessions.Create(c.Request.Context(), email)
	if err != nil {
		return err
	}
	a.setSessionCookie(c, token, int(auth.SessionTTL/time.Second))
	return nil
}

func (a *App) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, maxAge, "/", "", false, true)
}
