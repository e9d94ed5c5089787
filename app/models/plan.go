package models

// PlanSpec describes a purchasable subscription tier as shown on the pricing
// page and tagged onto checkout sessions.
type PlanSpec struct {
	Name       string   `json:"name"`
	PriceCents int64    `json:"price"` // USD cents, charged monthly
	Repurposes int      `json:"repurposes"`
	Features   []string `json:"features"`
}
