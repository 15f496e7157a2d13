package discount

import (
	"time"

	"github.com/localmart/localmart/app/models"
)

// State is the conceptual lifecycle state of a token, derived from its field
// combination at evaluation time. There is no stored enum and no background
// sweep; expiry is evaluated on every read.
type State string

const (
	// StateActive is the only state that permits redemption.
	StateActive State = "active"
	// StateExhausted means the use cap is reached inside a valid window.
	StateExhausted State = "exhausted"
	// StateExpired means the validity window has passed.
	StateExpired State = "expired"
	// StateNotYetValid means the validity window has not opened.
	StateNotYetValid State = "not_yet_valid"
	// StateDisabled is the terminal external override (is_active=false).
	StateDisabled State = "disabled"
)

// Evaluate derives the token's state at the given instant. The validity
// window is inclusive on both ends.
func Evaluate(token *models.DiscountToken, now time.Time) State {
	if !token.IsActive {
		return StateDisabled
	}
	if now.Before(token.ValidFrom) {
		return StateNotYetValid
	}
	if now.After(token.ValidUntil) {
		return StateExpired
	}
	if token.MaxUses > 0 && token.UsesCount >= token.MaxUses {
		return StateExhausted
	}
	return StateActive
}
