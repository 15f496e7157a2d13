package discount

import "errors"

// Engine errors are plain sentinels; controllers map them to HTTP responses.
// Missing entities surface as gorm.ErrRecordNotFound from the repository.
var (
	// ErrValidation marks out-of-range parameters (value, window, type).
	ErrValidation = errors.New("invalid token parameters")
	// ErrInvalidAssociation marks a product that does not belong to the token's business.
	ErrInvalidAssociation = errors.New("product does not belong to business")
	// ErrInvalidState marks a redemption attempt on a token that is not Active.
	ErrInvalidState = errors.New("token not redeemable")
	// ErrConflict marks a concurrent redemption that would exceed max_uses.
	ErrConflict = errors.New("token redemption limit reached concurrently")
	// ErrUnauthorized marks a confirmation attempt by someone other than the business owner.
	ErrUnauthorized = errors.New("caller does not own the token's business")
	// ErrInvalidCode marks a confirmation code mismatch or a use without one.
	ErrInvalidCode = errors.New("confirmation code mismatch")
	// ErrCodeGenerationExhausted is returned when every generated code collided.
	ErrCodeGenerationExhausted = errors.New("could not generate a unique token code")
)
