// Package app composes the account ledger, session manager, repurposing
// gateway and billing bridge behind the HTTP API.
package app

import (
	"github.com/Mizuri0x/contentblast/app/config"
	"github.com/Mizuri0x/contentblast/auth"
	"github.com/Mizuri0x/contentblast/store"
)

// App holds the wired application components. Handlers are methods on it.
type App struct {
	cfg        *config.Config
	accounts   *Accounts
	sessions   *auth.Sessions
	repurposer *Repurposer
	payments   *Payments
}

// New wires the application from explicit dependencies.
func New(cfg *config.Config, users store.UserStore, sessionStore store.SessionStore) *App {
	return &App{
		cfg:        cfg,
		accounts:   NewAccounts(users),
		sessions:   auth.NewSessions(sessionStore),
		repurposer: NewRepurposer(cfg.OpenAI),
		payments:   NewPayments(cfg.Stripe),
	}
}

// Accounts exposes the ledger, e.g. for wiring cleanup jobs in cmd.
func (a *App) Accounts() *Accounts { return a.accounts }

// Sessions exposes the session manager.
func (a *App) Sessions() *auth.Sessions { return a.sessions }
