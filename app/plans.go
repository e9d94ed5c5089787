// Package app defines the static subscription plan catalog.
package app

import "github.com/Mizuri0x/contentblast/app/models"

// FreeLimit is the monthly repurpose allowance granted at registration.
const FreeLimit = 5

// Plans is the purchasable catalog. The free tier is the registration
// default and is deliberately not listed; it cannot be bought.
var Plans = map[string]models.PlanSpec{
	"starter": {
		Name:       "Starter",
		PriceCents: 1900,
		Repurposes: 50,
		Features:   []string{"50 repurposes/month", "All platforms", "Email support"},
	},
	"pro": {
		Name:       "Pro",
		PriceCents: 4900,
		Repurposes: 200,
		Features:   []string{"200 repurposes/month", "All platforms", "Priority support", "API access"},
	},
	"unlimited": {
		Name:       "Unlimited",
		PriceCents: 9900,
		Repurposes: -1,
		Features:   []string{"Unlimited repurposes", "All platforms", "24/7 support", "Custom integrations"},
	},
}

// planLimit resolves the repurpose cap for a plan id, including the free
// default. ok is false for ids outside the fixed enumeration.
func planLimit(plan models.Plan) (limit int, ok bool) {
	if plan == models.PlanFree {
		return FreeLimit, true
	}
	spec, found := Plans[string(plan)]
	if !found {
		return 0, false
	}
	return spec.Repurposes, true
}
