// Package models defines user plan and usage tracking fields.
package models

import "time"

type Plan string

const (
	PlanFree      Plan = "free"
	PlanStarter   Plan = "starter"
	PlanPro       Plan = "pro"
	PlanUnlimited Plan = "unlimited"
)

// UnlimitedRemaining is the display value reported for "remaining" when a
// plan has no cap (repurposes_limit == -1).
const UnlimitedRemaining = 999

type User struct {
	Email           string     `json:"email"`
	PasswordHash    string     `json:"password"`
	Name            string     `json:"name"`
	Plan            Plan       `json:"plan"`
	RepurposesUsed  int        `json:"repurposes_used"`
	RepurposesLimit int        `json:"repurposes_limit"` // -1 means unlimited
	CreatedAt       time.Time  `json:"created_at"`
	LastLogin       *time.Time `json:"last_login"`
}

// Remaining reports how many repurposes are left in the current period, or
// UnlimitedRemaining for uncapped plans.
func (u User) Remaining() int {
	if u.RepurposesLimit > 0 {
		return u.RepurposesLimit - u.RepurposesUsed
	}
	return UnlimitedRemaining
}
