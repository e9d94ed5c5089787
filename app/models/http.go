package models

// UserSummary is the user payload returned to the frontend. It never carries
// the password hash.
type UserSummary struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	Plan                Plan   `json:"plan"`
	RepurposesUsed      int    `json:"repurposes_used"`
	RepurposesLimit     int    `json:"repurposes_limit"`
	RepurposesRemaining int    `json:"repurposes_remaining"`
}

// Summary projects a stored user into its public API shape.
func (u User) Summary() UserSummary {
	return UserSummary{
		Email:               u.Email,
		Name:                u.Name,
		Plan:                u.Plan,
		RepurposesUsed:      u.RepurposesUsed,
		RepurposesLimit:     u.RepurposesLimit,
		RepurposesRemaining: u.Remaining(),
	}
}
