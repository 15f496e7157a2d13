package subscription

import "errors"

// Decision is the result of a quota check. Quota checks never fail on a hard
// limit; they return the decision plus a reason the caller can render.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Max     int    `json:"max"`
	Current int    `json:"current"`
}

// ErrUnknownTier is returned by ChangePlan for tiers outside the known set.
// Unlike LimitsForTier, plan changes reject unknown tiers outright instead of
// silently granting the free quota.
var ErrUnknownTier = errors.New("unknown subscription tier")

// BusinessProducts pairs a business with its current product count, used by
// the downgrade cascade.
type BusinessProducts struct {
	BusinessID   uint
	ProductCount int
}
