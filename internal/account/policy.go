package account

import "fmt"

// RegistrationInput carries everything a new signup may supply. Which fields
// are required depends on the active RegistrationPolicy.
type RegistrationInput struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PreferredName   string `json:"preferred_name"`
	PaymentMethodID string `json:"payment_method_id"`
	PriceID         uint   `json:"price_id"`
	TierID          uint   `json:"tier_id"`
}

// MissingFieldError reports a required field the input did not carry.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// RegistrationPolicy is fixed at construction: when PaymentRequired is set,
// registration must carry the payment method and plan references so the
// subscription can be provisioned during signup. The required-field set never
// changes at runtime.
type RegistrationPolicy struct {
	PaymentRequired bool
}

func (p RegistrationPolicy) Validate(input RegistrationInput) error {
	if input.Email == "" {
		return &MissingFieldError{Field: "email"}
	}
	if input.Username == "" {
		return &MissingFieldError{Field: "username"}
	}
	if input.Password == "" {
		return &MissingFieldError{Field: "password"}
	}

	if p.PaymentRequired {
		if input.PaymentMethodID == "" {
			return &MissingFieldError{Field: "payment_method_id"}
		}
		if input.PriceID == 0 {
			return &MissingFieldError{Field: "price_id"}
		}
		if input.TierID == 0 {
			return &MissingFieldError{Field: "tier_id"}
		}
	}

	return nil
}
